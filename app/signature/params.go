package signature

import (
	"bytes"
	"encoding/json"
)

// Param is a single named payment parameter.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered list of payment parameters. The order is the order in
// which parameters are rendered into the bank form; signing policies decide
// on their own whether order matters.
type Params []Param

// Get returns the value stored under name. Absent parameters read as "".
func (p Params) Get(name string) string {
	v, _ := p.Lookup(name)
	return v
}

func (p Params) Lookup(name string) (string, bool) {
	for _, item := range p {
		if item.Name == name {
			return item.Value, true
		}
	}
	return "", false
}

// Set replaces the value of name in place or appends it.
func (p *Params) Set(name, value string) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Name: name, Value: value})
}

func (p Params) Clone() Params {
	result := make(Params, len(p))
	copy(result, p)
	return result
}

// MarshalJSON renders the parameters as a JSON object keeping their order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
