// Package stamp renders a repository snapshot into build inputs: linker
// flags that populate the buildinfo variables, or a standalone Go source file
// with the same facts declared as constants.
package stamp
