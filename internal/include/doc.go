// Package include recognizes #include directives in loaded files.
//
// Exactly two directive forms are accepted, modelled as a closed set of
// variants (Kind):
//
//   - KindExternal: #include <name>, a header outside the tree. The line is
//     kept verbatim in the output and never deduplicated.
//   - KindInternal: #include "name" where name carries the internal naming
//     prefix. These are candidates for flattening.
//
// Any other line starting with #include is rejected with a *ParseError.
package include
