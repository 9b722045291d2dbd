// Package paths resolves dataset file locations for experiment runs.
//
// Resolution is a pure function of its inputs: no filesystem access, no side
// effects. Training paths derive from the configuration's dataset template;
// test paths are fixed files shared by every configuration.
package paths

import (
	"fmt"

	"github.com/okian/sitebench/internal/domain/registry"
)

// Fixed test-set layout. Test sets always live under the 1000-sample
// directory regardless of the training sample size.
const (
	testDir                = "1000"
	simpleRandomFile       = "simple_random_1000_rev1.csv"
	stratifiedBalancedFile = "stratified_balanced_1000_rev1.csv"
)

// Resolve maps (configuration, site, sample size, train/test, balance) to a
// dataset path of the form basePath/site/<dir>/<file>.
//
// For training sets the filename comes from the configuration's dataset
// template applied to sampleSize, nested under a directory named by the
// sample size. Unknown configurations fail with registry.ErrConfigNotFound
// and no partial path is returned.
//
// For test sets the sample size and template are ignored; the file is the
// simple-random or stratified-balanced fixture depending on balanced.
func Resolve(reg *registry.Registry, configName, site string, sampleSize int, basePath string, train, balanced bool) (string, error) {
	if !train {
		file := simpleRandomFile
		if balanced {
			file = stratifiedBalancedFile
		}
		return fmt.Sprintf("%s/%s/%s/%s", basePath, site, testDir, file), nil
	}

	cfg, err := reg.Get(configName)
	if err != nil {
		return "", err
	}
	file := fmt.Sprintf(cfg.DatasetTemplate, sampleSize)
	return fmt.Sprintf("%s/%s/%d/%s", basePath, site, sampleSize, file), nil
}
