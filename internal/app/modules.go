package app

import (
	"github.com/specialistvlad/extgrid/internal/registry"
	"github.com/specialistvlad/extgrid/modules/env_vars"
	"github.com/specialistvlad/extgrid/modules/fallback"
	"github.com/specialistvlad/extgrid/modules/http_client"
	"github.com/specialistvlad/extgrid/modules/print"
	"github.com/specialistvlad/extgrid/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the extgrid binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&fallback.Module{},
	&http_client.Module{},
	&print.Module{},
	&socketio.Module{},
}
