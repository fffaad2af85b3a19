package countrytemplate

import (
	"embed"

	"lexcore-hq/lexcore/pkg/entity"
	"lexcore-hq/lexcore/pkg/parameter"
	"lexcore-hq/lexcore/pkg/simulation"
	"lexcore-hq/lexcore/pkg/variable"
)

//go:embed parameters/*.yaml
var parameterFiles embed.FS

// NewSystem builds the template rule set with its embedded parameters.
func NewSystem() (*simulation.System, error) {
	person, household, err := newEntities()
	if err != nil {
		return nil, err
	}

	registry := variable.NewRegistry([]*entity.Entity{person, household})
	registerVariables(registry)

	parameters, err := parameter.LoadFS(parameterFiles, "parameters")
	if err != nil {
		return nil, err
	}

	return simulation.NewSystem(registry, parameters), nil
}

// NewSystemFromDir builds the rule set with parameters loaded from an
// external directory instead of the embedded ones, for deployments that
// maintain their own parameter files.
func NewSystemFromDir(dir string) (*simulation.System, error) {
	person, household, err := newEntities()
	if err != nil {
		return nil, err
	}

	registry := variable.NewRegistry([]*entity.Entity{person, household})
	registerVariables(registry)

	parameters, err := parameter.LoadDir(dir)
	if err != nil {
		return nil, err
	}

	return simulation.NewSystem(registry, parameters), nil
}
