// Package swd reads SWD debug information and indexes it for a debugger.
//
// An SWD stream accompanies a compiled bytecode module. It starts with the
// three byte magic "FWD" and a version byte, followed by a sequence of tags:
// source files, per-file line to bytecode offset tables, breakpoints and an
// opaque build id. All integers are little-endian.
//
// The package has two layers:
//   - Decoder turns a byte source into a lazy, finite sequence of Tag values.
//   - Loader folds that sequence into a Model which answers line to offset and
//     offset to breakpoint queries, and lets a debugger add or remove
//     breakpoints after load.
//
// Example:
//
//	model, err := swd.Load(f)
//	if err != nil {
//		return err
//	}
//	if offset, ok := model.ResolveLine(1, 42); ok {
//		model.AddBreakpoint(1, 42)
//		bp, _ := model.ResolveBreakpoint(offset)
//		fmt.Println(model.File(bp.FileIndex).Name(), bp.Line)
//	}
//
// A Model has a single owner and does no internal locking. Callers sharing a
// Model between goroutines must guard it themselves.
package swd
