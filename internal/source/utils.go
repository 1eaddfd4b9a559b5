package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

// removeBOM убирает UTF-8 BOM, а файлы UTF-16 с BOM перекодирует в UTF-8.
// Без BOM содержимое не трогаем: исходники не обязаны быть валидным UTF-8.
func removeBOM(content []byte) ([]byte, bool, error) {
	if !hasBOM(content) {
		return content, false, nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), content)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func hasBOM(content []byte) bool {
	switch {
	case len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF:
		return true
	case len(content) >= 2 && content[0] == 0xFF && content[1] == 0xFE:
		return true
	case len(content) >= 2 && content[0] == 0xFE && content[1] == 0xFF:
		return true
	}
	return false
}

// splitLines разбивает содержимое на строки без завершающего \n.
// "a\nb\n" и "a\nb" дают по две строки, а пустой файл ни одной.
func splitLines(name string, content []byte) []Line {
	if len(content) == 0 {
		return nil
	}
	parts := strings.Split(string(content), "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	lines := make([]Line, len(parts))
	for i, text := range parts {
		num, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("line number overflow in %s: %w", name, err))
		}
		lines[i] = Line{File: name, Num: num, Text: text}
	}
	return lines
}

// BaseName returns the identity of a file: its name without directories.
func BaseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
