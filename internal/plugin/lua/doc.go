// Package lua runs user scripts against the image toolkit settings.
//
// Scripts run in a gopher-lua state with only the base, table, string and
// math libraries opened. The toolkit.settings module exposes the record:
//
//	local s = toolkit.settings
//	if s.get("imageMoveSpeed") < 20 then
//	    s.set("imageMoveSpeed", 20)
//	end
//	for _, m in ipairs(s.modes()) do print(m) end
//	print(s.defaults().imgFullScreenMode)
//
// Edits go through the same controller as the settings panel, so they
// refresh the feature state and persist exactly like user input. Invalid
// edits raise Lua errors.
//
// # State
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	lua.OpenSettings(state, host, controller)
//	err = state.Run(ctx, script)
package lua
