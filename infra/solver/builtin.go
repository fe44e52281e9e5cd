package solver

import (
	"github.com/kilianp07/unitcommit/core/factory"
	coresolver "github.com/kilianp07/unitcommit/core/solver"
	"github.com/kilianp07/unitcommit/infra/logger"
)

// init registers the built-in backends.
func init() {
	_ = coresolver.RegisterBackend("cbc", func(conf map[string]any) (coresolver.Backend, error) {
		var c CBCConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewCBC(c, logger.New("solver-cbc")), nil
	})

	_ = coresolver.RegisterBackend("glpk", func(conf map[string]any) (coresolver.Backend, error) {
		var c GLPKConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewGLPK(c, logger.New("solver-glpk")), nil
	})

	_ = coresolver.RegisterBackend("service", func(conf map[string]any) (coresolver.Backend, error) {
		var c ServiceConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s, err := NewService(c, logger.New("solver-service"))
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
