//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/engine"
	"github.com/scenekit/scenekit/internal/geometry"
)

var eng *engine.Engine

func main() {
	eng = engine.New(hostViewer{host: js.Global().Get("scenekitHost")}, engine.Options{Logger: slog.Default()})
	go eng.Run(context.Background())

	// Create the engine API object
	scenekitEngine := js.Global().Get("Object").New()

	// --- Input (frontend → engine) ---
	scenekitEngine.Set("click", js.FuncOf(click))
	scenekitEngine.Set("hover", js.FuncOf(hover))
	scenekitEngine.Set("wheel", js.FuncOf(wheel))
	scenekitEngine.Set("key", js.FuncOf(key))
	scenekitEngine.Set("invoke", js.FuncOf(invoke))
	scenekitEngine.Set("objectCommand", js.FuncOf(objectCommand))
	scenekitEngine.Set("select", js.FuncOf(selectObject))

	// --- Queries (frontend ← engine) ---
	scenekitEngine.Set("getScene", js.FuncOf(getScene))
	scenekitEngine.Set("getCommands", js.FuncOf(getCommands))
	scenekitEngine.Set("getCursor", js.FuncOf(getCursor))
	scenekitEngine.Set("subscribe", js.FuncOf(subscribe))

	// Register on global scope
	js.Global().Set("scenekitEngine", scenekitEngine)

	// Signal that WASM is ready
	js.Global().Set("scenekitWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// pointerJSON is the pointer sample the frontend sends.
type pointerJSON struct {
	Origin    geometry.Vec3 `json:"origin"`
	Direction geometry.Vec3 `json:"direction"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Shift     bool          `json:"shift"`
	Ctrl      bool          `json:"ctrl"`
	Delta     float64       `json:"delta"`
}

func parsePointer(args []js.Value) (commands.PointerEvent, float64, bool) {
	if len(args) < 1 {
		return commands.PointerEvent{}, 0, false
	}
	var p pointerJSON
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return commands.PointerEvent{}, 0, false
	}
	return commands.PointerEvent{
		Ray:   geometry.NewRay(p.Origin, p.Direction),
		X:     p.X,
		Y:     p.Y,
		Shift: p.Shift,
		Ctrl:  p.Ctrl,
	}, p.Delta, true
}

// promise runs fn on a goroutine so blocking engine calls never stall the
// JavaScript event loop.
func promise(fn func() (interface{}, error)) interface{} {
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve, reject := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	p := js.Global().Get("Promise").New(handler)
	handler.Release()
	return p
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// --- Input Handlers ---

func click(this js.Value, args []js.Value) interface{} {
	ev, _, ok := parsePointer(args)
	if !ok {
		return errorResult("invalid pointer event")
	}
	return js.ValueOf(eng.Click(ev))
}

func hover(this js.Value, args []js.Value) interface{} {
	ev, _, ok := parsePointer(args)
	if !ok {
		return errorResult("invalid pointer event")
	}
	return js.ValueOf(eng.Hover(ev))
}

func wheel(this js.Value, args []js.Value) interface{} {
	ev, delta, ok := parsePointer(args)
	if !ok {
		return errorResult("invalid pointer event")
	}
	return promise(func() (interface{}, error) {
		return eng.Wheel(context.Background(), ev, delta)
	})
}

func key(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Key(args[0].String(), args[1].Bool()))
}

func invoke(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing command id")
	}
	id := args[0].String()
	return promise(func() (interface{}, error) {
		return eng.Invoke(context.Background(), id)
	})
}

func objectCommand(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("missing command name or object id")
	}
	name, id := args[0].String(), args[1].String()
	return promise(func() (interface{}, error) {
		return eng.InvokeOn(context.Background(), name, id)
	})
}

func selectObject(this js.Value, args []js.Value) interface{} {
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	return promise(func() (interface{}, error) {
		return nil, eng.Select(context.Background(), id)
	})
}

// --- Query Handlers ---

func getScene(this js.Value, args []js.Value) interface{} {
	return promise(func() (interface{}, error) {
		var out string
		var err error
		if callErr := eng.Call(context.Background(), func() {
			out, err = engine.SceneToJSON(eng.Scene())
		}); callErr != nil {
			return nil, callErr
		}
		return out, err
	})
}

func getCommands(this js.Value, args []js.Value) interface{} {
	return promise(func() (interface{}, error) {
		var states []commands.State
		if err := eng.Call(context.Background(), func() {
			states = eng.Controller().States()
		}); err != nil {
			return nil, err
		}
		data, err := json.Marshal(states)
		return string(data), err
	})
}

func getCursor(this js.Value, args []js.Value) interface{} {
	return promise(func() (interface{}, error) {
		var cursor commands.Cursor
		err := eng.Call(context.Background(), func() { cursor = eng.Cursor() })
		return string(cursor), err
	})
}

// eventJSON is an engine event as the frontend receives it.
type eventJSON struct {
	Type     string            `json:"type"`
	ObjectID string            `json:"objectId,omitempty"`
	Change   domain.Change     `json:"change,omitempty"`
	Node     *engine.SceneNode `json:"node,omitempty"`
	Commands []commands.State  `json:"commands,omitempty"`
}

// subscribe calls the callback with every object change and command state
// update as a JSON string.
func subscribe(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return errorResult("missing callback")
	}
	callback := args[0]
	eng.Subscribe(func(ev engine.Event) {
		var out eventJSON
		switch ev.Type {
		case engine.EventChange:
			out = eventJSON{Type: "object.change", ObjectID: ev.Object.ID(), Change: ev.Change}
			if !ev.Change.Has(domain.ChangeDeleted) {
				node := engine.Describe(ev.Object, eng.VisibilityContext())
				out.Node = &node
			}
		case engine.EventCommands:
			out = eventJSON{Type: "commands", Commands: ev.Commands}
		default:
			return
		}
		data, err := json.Marshal(out)
		if err != nil {
			slog.Error("marshal event", "error", err)
			return
		}
		callback.Invoke(string(data))
	})
	return js.ValueOf(true)
}

// hostViewer forwards viewer calls to the scenekitHost object the page
// provides: intersect(eventJSON) returns a JSON array of
// {point, objectId} hits nearest first. Slice planes and crop box planes
// arrive on separate calls.
type hostViewer struct {
	host js.Value
}

func (v hostViewer) Transform() mgl64.Mat4 {
	m := mgl64.Ident4()
	if v.host.Get("modelMatrix").Type() != js.TypeFunction {
		return m
	}
	values := v.host.Call("modelMatrix")
	if values.Length() != 16 {
		return m
	}
	for i := range 16 {
		m[i] = values.Index(i).Float()
	}
	return m
}

func (v hostViewer) Intersect(ctx context.Context, ev commands.PointerEvent, accept func(string) bool) (*engine.Pick, error) {
	data, err := json.Marshal(pointerJSON{
		Origin:    ev.Ray.Origin,
		Direction: ev.Ray.Direction,
		X:         ev.X,
		Y:         ev.Y,
	})
	if err != nil {
		return nil, err
	}
	var hits []struct {
		Point    geometry.Vec3 `json:"point"`
		ObjectID string        `json:"objectId"`
	}
	result := v.host.Call("intersect", string(data))
	if err := json.Unmarshal([]byte(result.String()), &hits); err != nil {
		return nil, err
	}
	for _, h := range hits {
		if h.ObjectID == "" || accept(h.ObjectID) {
			return &engine.Pick{Point: h.Point, ObjectID: h.ObjectID}, nil
		}
	}
	return nil, nil
}

func (v hostViewer) SetClippingPlanes(planes []geometry.Plane) {
	v.sendPlanes("setClippingPlanes", planes)
}

func (v hostViewer) SetCropBoxPlanes(planes []geometry.Plane) {
	v.sendPlanes("setCropBoxPlanes", planes)
}

func (v hostViewer) sendPlanes(method string, planes []geometry.Plane) {
	type planeJSON struct {
		Normal   geometry.Vec3 `json:"normal"`
		Constant float64       `json:"constant"`
	}
	out := make([]planeJSON, 0, len(planes))
	for _, p := range planes {
		out = append(out, planeJSON{Normal: p.Normal, Constant: p.Constant})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	v.host.Call(method, string(data))
}

func (v hostViewer) SetCursor(cursor commands.Cursor) {
	v.host.Call("setCursor", string(cursor))
}
