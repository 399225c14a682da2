package states

import am "github.com/pancsta/asyncmachine-go/pkg/machine"

// S is a type alias for a list of state names.
type S = am.S

// States map defines relations and properties of the PATH watcher states.
var States = am.Struct{
	Init:     {Add: S{Watching}},
	Watching: {Require: S{Init}},
	// Refreshing re-lists the dirs passed as the "dirs" arg.
	Refreshing: {
		Multi:  true,
		Remove: S{Ready},
	},
	// Ready means all refreshes finished and results are current.
	Ready: {Require: S{Init}},
}

// #region boilerplate defs

// Names of all the states (pkg enum).

const (
	Init       = "Init"
	Watching   = "Watching"
	Refreshing = "Refreshing"
	Ready      = "Ready"
)

// Names is an ordered list of all the state names.
var Names = S{am.Exception, Init, Watching, Refreshing, Ready}

// #endregion
