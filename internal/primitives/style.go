package primitives

import "github.com/scenekit/scenekit/internal/domain"

// CommonRenderStyle is the render style shared by all primitives.
type CommonRenderStyle struct {
	DepthTest bool    `json:"depthTest"`
	Opacity   float64 `json:"opacity"`
	LineWidth float64 `json:"lineWidth"`
	ShowLabel bool    `json:"showLabel"`
}

// NewCommonRenderStyle returns a style initialized from the current defaults.
func NewCommonRenderStyle() *CommonRenderStyle {
	d := CurrentDefaults()
	return &CommonRenderStyle{
		DepthTest: d.DepthTest,
		Opacity:   d.Opacity,
		LineWidth: d.LineWidth,
		ShowLabel: d.ShowLabel,
	}
}

func (s *CommonRenderStyle) Clone() domain.RenderStyle {
	c := *s
	return &c
}

// StyleOf returns the common render style used by o, if it has one.
func StyleOf(o *domain.Object) (*CommonRenderStyle, bool) {
	style, ok := o.RenderStyle().(*CommonRenderStyle)
	return style, ok
}

func newStyle() domain.RenderStyle {
	return NewCommonRenderStyle()
}

// verifyStyle keeps opacity within [0, 1] and the line width positive.
func verifyStyle(_ *domain.Object, style domain.RenderStyle) {
	s, ok := style.(*CommonRenderStyle)
	if !ok {
		return
	}
	s.Opacity = min(max(s.Opacity, 0), 1)
	if s.LineWidth <= 0 {
		s.LineWidth = 1
	}
}
