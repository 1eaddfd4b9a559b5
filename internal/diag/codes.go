package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// include-директивы
	IncInfo            Code = 1000
	IncStrayInternal   Code = 1001
	IncUnreachedHeader Code = 1002
	IncAlreadyIncluded Code = 1003
	IncKeptAsDirective Code = 1004
	IncCycle           Code = 1005
	IncSelfInclude     Code = 1006

	// линковка
	LinkInfo      Code = 2000
	LinkLocalized Code = 2001

	// ввод-вывод
	IOInfo           Code = 4000
	IOEmptyFile      Code = 4001
	IONormalizedText Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	IncInfo:            "Include information",
	IncStrayInternal:   "Internal include removed from body file",
	IncUnreachedHeader: "Header not reachable from the root header",
	IncAlreadyIncluded: "Header already included",
	IncKeptAsDirective: "Header kept as include directive",
	IncCycle:           "Header takes part in an include cycle",
	IncSelfInclude:     "Header includes itself",
	LinkInfo:           "Linkage information",
	LinkLocalized:      "Declaration made file-local",
	IOInfo:             "IO information",
	IOEmptyFile:        "Empty input file",
	IONormalizedText:   "Input line endings normalized",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("INC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
