package analyze

import (
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

// Sentinel is the generic pass-through operator type. It lives in the core
// Vega runtime and never needs an extension module.
const Sentinel = "operator"

// Analyzer resolves dataflow operators against a transform index.
type Analyzer struct {
	Index *transforms.Index
}

// New returns an analyzer over idx. A nil idx selects [transforms.Default].
func New(idx *transforms.Index) *Analyzer {
	if idx == nil {
		idx = transforms.Default()
	}
	return &Analyzer{Index: idx}
}

// Analyze records in m every module the spec needs. See the package
// documentation for the walk and error semantics.
func (a *Analyzer) Analyze(spec *dataflow.Spec, m *ModuleMap) error {
	if spec.Empty() {
		return nil
	}
	for _, op := range spec.Operators {
		if err := a.use(op.Type, m); err != nil {
			return err
		}
		if op.Subflow != nil {
			if err := a.Analyze(op.Subflow, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// use records that the bundle requires the named transform.
func (a *Analyzer) use(name string, m *ModuleMap) error {
	if name == Sentinel {
		return nil
	}
	mod, ok := a.Index.FindPackage(name)
	if !ok {
		return errors.New(errors.ErrCodeUnrecognizedTransform, "Unrecognized transform: %s", name).
			WithSubject(name)
	}
	m.Add(mod, name)
	return nil
}

// Analyze runs [Analyzer.Analyze] with the default index.
func Analyze(spec *dataflow.Spec, m *ModuleMap) error {
	return New(nil).Analyze(spec, m)
}

// UnrecognizedTransform returns the transform name carried by an
// UNRECOGNIZED_TRANSFORM error anywhere in err's chain.
func UnrecognizedTransform(err error) (string, bool) {
	if !errors.Is(err, errors.ErrCodeUnrecognizedTransform) {
		return "", false
	}
	return errors.GetSubject(err), true
}
