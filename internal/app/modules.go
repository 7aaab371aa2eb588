package app

import (
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/modules/numeric"
)

// coreModules is the definitive list of all processor modules that are
// compiled into the gridflow binary.
var coreModules = []registry.Module{
	&numeric.Module{},
}
