package dataflow

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/vegabundle/pkg/errors"
)

// Operator is a single entry of a dataflow spec's operators array.
type Operator struct {
	// Type names the dataflow transform, e.g. "aggregate" or "geoshape".
	Type string

	// Subflow is the nested dataflow of a control-flow operator, decoded from
	// params.subflow.$subflow. Nil for ordinary operators.
	Subflow *Spec

	raw json.RawMessage
}

// Op returns an operator of the given type with no subflow.
func Op(typ string) Operator {
	return Operator{Type: typ}
}

// SubflowOp returns an operator of the given type carrying a nested subflow.
func SubflowOp(typ string, subflow *Spec) Operator {
	return Operator{Type: typ, Subflow: subflow}
}

// operatorFields are the operator fields this package interprets.
type operatorFields struct {
	Type   *string                    `json:"type"`
	Params map[string]json.RawMessage `json:"params"`
}

// subflowParam is the shape of params.subflow on control-flow operators.
type subflowParam struct {
	Subflow *Spec `json:"$subflow"`
}

// UnmarshalJSON decodes an operator, keeping its original bytes.
func (o *Operator) UnmarshalJSON(data []byte) error {
	var f operatorFields
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid operator")
	}
	if f.Type == nil {
		return errors.New(errors.ErrCodeInvalidSpec, "operator is missing a type")
	}

	var sub *Spec
	if raw, ok := f.Params["subflow"]; ok {
		var p subflowParam
		// A subflow param that is not an object (e.g. an operator reference)
		// has no nested dataflow.
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			sub = p.Subflow
		}
	}

	compacted, err := compact(data)
	if err != nil {
		return err
	}
	*o = Operator{Type: *f.Type, Subflow: sub, raw: compacted}
	return nil
}

// MarshalJSON encodes the operator. Decoded operators re-encode their
// original bytes.
func (o Operator) MarshalJSON() ([]byte, error) {
	if o.raw != nil {
		return o.raw, nil
	}
	if o.Subflow == nil {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{o.Type})
	}
	type subflow struct {
		Subflow *Spec `json:"$subflow"`
	}
	type params struct {
		Subflow subflow `json:"subflow"`
	}
	return json.Marshal(struct {
		Type   string `json:"type"`
		Params params `json:"params"`
	}{o.Type, params{subflow{o.Subflow}}})
}

// Spec is a Vega runtime dataflow specification.
type Spec struct {
	// Operators lists the dataflow operators in declaration order.
	Operators []Operator

	raw json.RawMessage
}

// NewSpec returns a spec with the given operators.
func NewSpec(ops ...Operator) *Spec {
	return &Spec{Operators: ops}
}

// Parse decodes a runtime dataflow spec from JSON.
func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid dataflow spec")
	}
	return &s, nil
}

// Empty reports whether s is nil or has no operators.
func (s *Spec) Empty() bool {
	return s == nil || len(s.Operators) == 0
}

// UnmarshalJSON decodes a spec, keeping its original bytes.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var f struct {
		Operators []Operator `json:"operators"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid dataflow spec")
	}
	compacted, err := compact(data)
	if err != nil {
		return err
	}
	*s = Spec{Operators: f.Operators, raw: compacted}
	return nil
}

// MarshalJSON encodes the spec. Decoded specs re-encode their original bytes.
func (s Spec) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	ops := s.Operators
	if ops == nil {
		ops = []Operator{}
	}
	return json.Marshal(struct {
		Operators []Operator `json:"operators"`
	}{ops})
}

func compact(data []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid JSON")
	}
	return buf.Bytes(), nil
}
