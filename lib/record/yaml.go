package record

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// contactFile is the layout of a contact import file:
//
//	contacts:
//	  - first_name: Jane
//	    last_name: Doe
//	    age: "30"
//	    phone_number: 555-1234
//	    email: jane@x.io
type contactFile struct {
	Contacts []Record `yaml:"contacts"`
}

// LoadYAML reads a contact file and validates every record in it.
// The first invalid record aborts the load.
func LoadYAML(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read contact file: %w", err)
	}

	var file contactFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse contact file: %w", err)
	}

	for i, rec := range file.Contacts {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("contact %d: %w", i, err)
		}
	}

	return file.Contacts, nil
}
