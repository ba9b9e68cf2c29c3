package viewer

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const hudWidth = 220

// HUD is the side panel with the command buttons and the status readout.
type HUD struct {
	UI      *ebitenui.UI
	status  *widget.Text
	tourBtn *widget.Button
	gridBtn *widget.Button
}

func NewHUD(g *Game) *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 230})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x3d, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x52, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{
		Idle:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Hover: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	h := &HUD{}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(hudWidth-40, 26),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	title := widget.NewText(
		widget.TextOpts.Text("gallerywalk", &face, white),
	)
	h.status = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.MinSize(hudWidth-40, 120)),
	)

	stopBtn := button("Stop (Esc)", g.stopWalk)
	rebuildBtn := button("Rebuild grid (R)", g.rebuildGrid)
	h.tourBtn = button("Tour: Off (T)", g.toggleTour)
	h.gridBtn = button("Grid: On (G)", g.toggleGrid)
	copyBtn := button("Copy path (C)", g.copyPath)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Bottom: 16, Left: 20, Right: 20}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(hudWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(stopBtn)
	panel.AddChild(rebuildBtn)
	panel.AddChild(h.tourBtn)
	panel.AddChild(h.gridBtn)
	panel.AddChild(copyBtn)
	panel.AddChild(h.status)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	h.UI = &ebitenui.UI{Container: root}
	return h
}

func (h *HUD) SetStatus(s string) {
	h.status.Label = s
}

func (h *HUD) SetTouring(on bool) {
	setButtonLabel(h.tourBtn, onOff("Tour", on)+" (T)")
}

func (h *HUD) SetGrid(on bool) {
	setButtonLabel(h.gridBtn, onOff("Grid", on)+" (G)")
}

func setButtonLabel(b *widget.Button, label string) {
	if b == nil {
		return
	}
	if text := b.Text(); text != nil {
		text.Label = label
	}
}

func onOff(name string, on bool) string {
	if on {
		return name + ": On"
	}
	return name + ": Off"
}
