package registry

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// configSpec mirrors one registry file entry.
type configSpec struct {
	Name            string             `koanf:"name"`
	DatasetTemplate string             `koanf:"dataset_template"`
	Builder         string             `koanf:"builder"`
	Params          map[string]float64 `koanf:"params"`
}

// registryFile mirrors the YAML registry file layout:
//
//	configurations:
//	  - name: logistic_baseline
//	    dataset_template: "train_%d_rev1.csv"
//	    builder: logistic
//	    params: {w0: 0.8, bias: -0.4}
type registryFile struct {
	Configurations []configSpec `koanf:"configurations"`
}

// LoadFile reads a YAML registry file and builds a validated Registry.
// Builder names must already be registered via RegisterBuilder.
func LoadFile(_ context.Context, path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load registry file %s: %w", path, err)
	}

	var spec registryFile
	if err := k.UnmarshalWithConf("", &spec, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}
	if len(spec.Configurations) == 0 {
		return nil, fmt.Errorf("%w: registry file %s defines no configurations", ErrInvalidConfig, path)
	}

	configs := make([]Config, 0, len(spec.Configurations))
	for _, s := range spec.Configurations {
		configs = append(configs, Config{
			Name:            s.Name,
			DatasetTemplate: s.DatasetTemplate,
			BuilderName:     s.Builder,
			Params:          s.Params,
		})
	}
	return New(configs...)
}
