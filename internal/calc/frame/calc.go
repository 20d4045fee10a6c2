package frame

import (
	"fmt"
	"log"
	"sync"

	"Statica/internal/engine"
)

// Nonlinear analysis settings: incremental load stepping with a
// normed-displacement convergence test.
const (
	nonlinearTolerance = 1e-8
	nonlinearMaxIter   = 50
	nonlinearLoadStep  = 0.1
	nonlinearSteps     = 10
)

// Solver runs the assemble -> solve -> extract sequence. The engine keeps
// its current model in process-wide state, so the whole sequence holds an
// exclusive lock: one request inside at a time, system-wide.
type Solver struct {
	mu  sync.Mutex
	ses *engine.Session
}

func NewSolver() *Solver {
	return &Solver{ses: engine.NewSession()}
}

// Solve analyses the request and always returns a response: on any
// failure the response carries Success=false and a message, never a
// partial result. The lock is released on every exit path.
func (s *Solver) Solve(req *Request) *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.run(req)
	if err != nil {
		log.Printf("frame: solve failed: %v", err)
		return &Response{Success: false, Error: err.Error()}
	}
	return resp
}

func (s *Solver) run(req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("engine failure: %v", r)
		}
	}()

	mm, err := BuildModel(s.ses, req)
	if err != nil {
		return nil, err
	}

	var code int
	if req.GeometricNonlinear {
		// P-Delta: load stepping for convergence
		if err := s.ses.SetAlgorithm(engine.AlgorithmNewton); err != nil {
			return nil, err
		}
		if err := s.ses.SetTest(nonlinearTolerance, nonlinearMaxIter); err != nil {
			return nil, err
		}
		if err := s.ses.SetIntegrator(nonlinearLoadStep); err != nil {
			return nil, err
		}
		code = s.ses.Analyze(nonlinearSteps)
	} else {
		if err := s.ses.SetAlgorithm(engine.AlgorithmLinear); err != nil {
			return nil, err
		}
		if err := s.ses.SetIntegrator(1.0); err != nil {
			return nil, err
		}
		code = s.ses.Analyze(1)
	}
	if code != 0 {
		return nil, fmt.Errorf("analysis did not converge (code %d)", code)
	}

	if err := s.ses.ComputeReactions(); err != nil {
		return nil, err
	}
	return ExtractResults(s.ses, mm)
}
