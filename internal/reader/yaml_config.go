package reader

import (
	"io"

	"github.com/DjordjeVuckovic/sensor-buffer/pkg/apis"
	"gopkg.in/yaml.v3"
)

type YAMLConfigLoader struct {
	reader io.Reader
}

func NewYAMLConfigLoader(reader io.Reader) *YAMLConfigLoader {
	return &YAMLConfigLoader{
		reader: reader,
	}
}

func (cl *YAMLConfigLoader) Load(validate bool) (*apis.ReadingMapping, error) {
	decoder := yaml.NewDecoder(cl.reader)
	decoder.KnownFields(true)

	var mapping apis.ReadingMapping
	if err := decoder.Decode(&mapping); err != nil {
		return nil, err
	}
	if validate {
		if err := mapping.Validate(); err != nil {
			return nil, err
		}
	}
	return &mapping, nil
}
