// Package gcframe splits labeled tables into groups, runs an ordered
// pipeline of transforms over every group and reassembles the results.
//
// Usage:
//
//	import "github.com/spektr-org/gcframe/engine"
//
//	f, err := engine.Wrap(table, engine.WithLogger(logger))
//	if err != nil { ... }
//	err = f.GroupBy(frame.ByColumn("site")).
//	    Subtract(engine.Row(0)).
//	    ResetIndex().
//	    ToJSON("out.json", engine.WithSeparator("|"))
//
// Tables come from the frame package, usually loaded from CSV by helpers
// with a schema discovered by the schema package. The recipe package drives
// the same chain from a YAML file, and cmd/gcframe wraps it as a CLI.
//
// Nothing here talks to the network. All computation is local.
package gcframe
