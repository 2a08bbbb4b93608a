package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the fire formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// IgnitionContext is what a script sees about the object catching fire.
type IgnitionContext struct {
	Name       string
	Layer      string
	Oxygen     float64
	BurnResist float64
}

// IgnitionResult describes the fire a script started.
type IgnitionResult struct {
	Intensity float64 // 0..1
	BurnTicks int
}

// DefaultIgnition is used when no script defines calc_ignition or the script fails.
var DefaultIgnition = IgnitionResult{Intensity: 1, BurnTicks: 600}

// NewEngine creates a Lua VM and loads every script under dir/fire.
// A missing directory is not an error: the defaults apply.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(dir, "fire")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load fire scripts: %w", err)
	}
	return e, nil
}

// NewEngineFromString builds an engine from inline source (tests, tools).
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return &Engine{vm: vm, log: log}, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global Lua function with the given name exists.
func (e *Engine) Has(name string) bool {
	return e.vm.GetGlobal(name).Type() == lua.LTFunction
}

// CalcIgnition calls calc_ignition(ctx) and returns {intensity, burn_ticks}.
// Intensity is clamped to 0..1 (NaN falls back to the default) and burn
// ticks to at least 1.
func (e *Engine) CalcIgnition(ctx IgnitionContext) IgnitionResult {
	fn := e.vm.GetGlobal("calc_ignition")
	if fn.Type() != lua.LTFunction {
		return DefaultIgnition
	}

	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("layer", lua.LString(ctx.Layer))
	t.RawSetString("oxygen", lua.LNumber(ctx.Oxygen))
	t.RawSetString("burn_resist", lua.LNumber(ctx.BurnResist))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_ignition failed", zap.String("target", ctx.Name), zap.Error(err))
		return DefaultIgnition
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_ignition returned non-table", zap.String("type", ret.Type().String()))
		return DefaultIgnition
	}
	res := IgnitionResult{
		Intensity: float64(lua.LVAsNumber(tbl.RawGetString("intensity"))),
		BurnTicks: int(lua.LVAsNumber(tbl.RawGetString("burn_ticks"))),
	}
	if math.IsNaN(res.Intensity) {
		res.Intensity = DefaultIgnition.Intensity
	} else if res.Intensity < 0 {
		res.Intensity = 0
	} else if res.Intensity > 1 {
		res.Intensity = 1
	}
	if res.BurnTicks < 1 {
		res.BurnTicks = 1
	}
	return res
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
