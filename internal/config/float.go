package config

// Window is what the host knows about a newly mapped window. X11 windows
// carry both WM_CLASS parts, Instance and Class. On Wayland, AppID plays the
// role of the class.
type Window struct {
	ID         int
	Class      string
	Instance   string
	AppID      string
	Title      string
	Role       string
	Type       string
	FixedSize  bool
	FixedRatio bool
}

// Match is a floating rule. All set fields must be equal to the window's
// values. A Match with nothing set never matches.
type Match struct {
	WMClass  string              `yaml:"wm_class,omitempty" json:"wm_class,omitempty"`
	Title    string              `yaml:"title,omitempty" json:"title,omitempty"`
	WMType   string              `yaml:"wm_type,omitempty" json:"wm_type,omitempty"`
	Role     string              `yaml:"role,omitempty" json:"role,omitempty"`
	FuncName string              `yaml:"func,omitempty" json:"func,omitempty"`
	Func     func(w Window) bool `yaml:"-" json:"-"`
}

func (m Match) empty() bool {
	return m.WMClass == "" && m.Title == "" && m.WMType == "" && m.Role == "" &&
		m.Func == nil
}

// Compare reports whether the window satisfies the rule.
func (m Match) Compare(w Window) bool {
	if m.empty() {
		return false
	}
	if m.WMClass != "" && !m.matchesClass(w) {
		return false
	}
	if m.Title != "" && m.Title != w.Title {
		return false
	}
	if m.WMType != "" && m.WMType != w.Type {
		return false
	}
	if m.Role != "" && m.Role != w.Role {
		return false
	}
	if m.Func != nil && !m.Func(w) {
		return false
	}

	return true
}

// matchesClass checks either part of WM_CLASS, or the app_id.
func (m Match) matchesClass(w Window) bool {
	return m.WMClass == w.Instance || m.WMClass == w.Class || m.WMClass == w.AppID
}

// FloatRules is an ordered rule list.
type FloatRules []Match

// Classify returns whether the window floats and the index of the rule that
// decided it, or -1 when no rule matched and the window tiles. The first
// matching rule wins.
func (r FloatRules) Classify(w Window) (bool, int) {
	for i, m := range r {
		if m.Compare(w) {
			return true, i
		}
	}

	return false, -1
}

// DefaultFloatRules is the host's built-in rule set, evaluated before any
// personal rules.
func DefaultFloatRules() FloatRules {
	return FloatRules{
		{WMType: "utility"},
		{WMType: "notification"},
		{WMType: "toolbar"},
		{WMType: "splash"},
		{WMType: "dialog"},
		{WMClass: "file_progress"},
		{WMClass: "confirm"},
		{WMClass: "dialog"},
		{WMClass: "download"},
		{WMClass: "error"},
		{WMClass: "notification"},
		{WMClass: "splash"},
		{WMClass: "toolbar"},
		{FuncName: "has_fixed_size", Func: func(w Window) bool { return w.FixedSize }},
		{FuncName: "has_fixed_ratio", Func: func(w Window) bool { return w.FixedRatio }},
	}
}

// FloatingLayout holds the rules deciding which windows skip tiling.
type FloatingLayout struct {
	FloatRules FloatRules `yaml:"float_rules" json:"float_rules"`
}
