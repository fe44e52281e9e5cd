// Package factory holds the generic registry used to build pluggable modules
// (solver backends, schedule sinks) from configuration. A module is described
// by a type string and a map of raw settings; the registered factory decodes
// the settings into its own struct.
//
//	reg := factory.NewRegistry[solver.Backend]()
//	_ = reg.Register("cbc", func(conf map[string]any) (solver.Backend, error) {
//	    var c CBCConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewCBC(c), nil
//	})
//	b, err := reg.Create(factory.ModuleConfig{Type: "cbc"})
package factory
