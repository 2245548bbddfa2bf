package regions

import (
	"encoding/json"
)

// Region is an entry of the administrative region directory (province, regency or
// district). An empty ID means the region could not be matched to the directory,
// it is encoded as a JSON null.
type Region struct {
	ID   string
	Name string
}

// Unmatched returns the region used when name could not be matched.
func Unmatched(name string) Region {
	return Region{Name: name}
}

// Matched reports whether the region resolved to a directory entry.
func (r Region) Matched() bool {
	return r.ID != ""
}

type regionJSON struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

func (r Region) MarshalJSON() ([]byte, error) {
	out := regionJSON{Name: r.Name}
	if r.ID != "" {
		id := r.ID
		out.ID = &id
	}
	return json.Marshal(out)
}

func (r *Region) UnmarshalJSON(data []byte) error {
	var in regionJSON
	err := json.Unmarshal(data, &in)
	if err != nil {
		return err
	}
	r.Name = in.Name
	r.ID = ""
	if in.ID != nil {
		r.ID = *in.ID
	}
	return nil
}
