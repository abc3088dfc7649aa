package lua

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/imagetoolkit/internal/settings"
)

// SettingsModule is the global path of the settings module.
const SettingsModule = "toolkit.settings"

// Record gives read access to the live settings record.
type Record interface {
	Settings() *settings.Settings
}

// Editor applies loosely typed edits. *panel.Controller implements it.
type Editor interface {
	Set(field string, value any) error
}

// OpenSettings installs the toolkit.settings module in s.
func OpenSettings(s *State, rec Record, editor Editor) {
	m := &settingsModule{rec: rec, editor: editor}
	s.RegisterModule(SettingsModule, map[string]lua.LGFunction{
		"get":      m.get,
		"set":      m.set,
		"modes":    m.modes,
		"defaults": m.defaults,
		"fields":   m.fields,
	})
}

type settingsModule struct {
	rec    Record
	editor Editor
}

// get(name) returns the current value of a field.
func (m *settingsModule) get(L *lua.LState) int {
	name := L.CheckString(1)
	v, err := m.rec.Settings().Value(name)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(toLua(v))
	return 1
}

// set(name, value) edits a field like the settings panel would.
func (m *settingsModule) set(L *lua.LState) int {
	name := L.CheckString(1)
	value, err := fromLua(L.CheckAny(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	if err := m.editor.Set(name, value); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// modes() returns the full-screen mode keys in display order.
func (m *settingsModule) modes(L *lua.LState) int {
	t := L.NewTable()
	for _, mode := range settings.Modes() {
		t.Append(lua.LString(mode.Key()))
	}
	L.Push(t)
	return 1
}

// defaults() returns the static default record.
func (m *settingsModule) defaults(L *lua.LState) int {
	L.Push(recordTable(L, settings.Defaults()))
	return 1
}

// fields() returns the persisted field names, sorted.
func (m *settingsModule) fields(L *lua.LState) int {
	names := settings.Fields()
	sort.Strings(names)
	t := L.NewTable()
	for _, name := range names {
		t.Append(lua.LString(name))
	}
	L.Push(t)
	return 1
}

func recordTable(L *lua.LState, rec settings.Settings) *lua.LTable {
	t := L.NewTable()
	for k, v := range rec.Map() {
		L.SetField(t, k, toLua(v))
	}
	return t
}

func toLua(v any) lua.LValue {
	switch v := v.(type) {
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	default:
		return lua.LNil
	}
}

func fromLua(v lua.LValue) (any, error) {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LString:
		return string(v), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type())
	}
}
