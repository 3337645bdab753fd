package engine

import (
	"context"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/domain"
)

type pickRequest struct {
	ev commands.PointerEvent
	// hoverSeq is non-zero for hovers; a newer hover makes the result stale.
	hoverSeq uint64
	apply    func(tool commands.Tool, hit *commands.Hit)
}

func (e *Engine) enqueuePick(req pickRequest) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.picks <- req:
		return true
	case <-e.done:
		return false
	}
}

// pickLoop resolves picks one at a time, in arrival order. The tool and its
// generation are captured on the event loop when a query starts; the result
// is dropped if either changed by the time it comes back.
func (e *Engine) pickLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.picks:
			e.pick(ctx, req)
		}
	}
}

func (e *Engine) pick(ctx context.Context, req pickRequest) {
	var (
		tool       commands.Tool
		generation uint64
		rejected   map[string]bool
	)
	err := e.Call(ctx, func() {
		if req.hoverSeq != 0 && req.hoverSeq != e.hoverSeq {
			return
		}
		tool = e.controller.ActiveTool()
		if tool == nil {
			return
		}
		generation = tool.Generation()
		rejected = e.rejectedIDs(tool.IntersectionFilter())
	})
	if err != nil || tool == nil {
		return
	}

	found, err := e.viewer.Intersect(ctx, req.ev, func(id string) bool { return !rejected[id] })
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.logger.Warn("intersection failed", "error", err)
		found = nil
	}

	e.Post(func() {
		if req.hoverSeq != 0 && req.hoverSeq != e.hoverSeq {
			return
		}
		if !e.controller.IsActive(tool) || tool.Generation() != generation {
			e.logger.Debug("stale pick dropped", "tool", tool.Name())
			return
		}
		req.apply(tool, e.resolve(found))
	})
}

// rejectedIDs evaluates filter over the live objects so the viewer can test
// ids without touching the tree.
func (e *Engine) rejectedIDs(filter func(*domain.Object) bool) map[string]bool {
	if filter == nil {
		return nil
	}
	rejected := make(map[string]bool)
	for o := range e.tree.Root().Descendants() {
		if !filter(o) {
			rejected[o.ID()] = true
		}
	}
	return rejected
}

// resolve turns a viewer pick into a tool hit. Hits on objects that are gone
// keep their point.
func (e *Engine) resolve(p *Pick) *commands.Hit {
	if p == nil {
		return nil
	}
	hit := &commands.Hit{Point: p.Point}
	if p.ObjectID != "" {
		if o, ok := e.tree.ByID(p.ObjectID); ok && !o.IsRemoved() {
			hit.Object = o
		}
	}
	return hit
}
