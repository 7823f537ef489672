package host

// Look describes a window's decoration style.
type Look int

const (
	// NoBorderLook draws no decoration at all.
	NoBorderLook Look = iota
	// BorderedLook draws a plain frame without a tab.
	BorderedLook
	// TitledLook draws a frame and a title tab.
	TitledLook
	// DocumentLook is TitledLook plus a resize knob.
	DocumentLook
	// ModalLook marks blocking dialogs.
	ModalLook
	// FloatingLook marks palette-style windows.
	FloatingLook
)

// Feel describes how a window sorts against other windows.
type Feel int

const (
	// NormalFeel is an ordinary application window.
	NormalFeel Feel = iota
	// FloatingFeel stays above normal windows of its team.
	FloatingFeel
	// ModalFeel blocks its team.
	ModalFeel
)

// Flags carries per-window behavior bits.
type Flags uint32

const (
	// NotMovable pins the window's position.
	NotMovable Flags = 1 << iota
	// NotResizable pins both extents.
	NotResizable
	// NotHResizable pins the width.
	NotHResizable
	// NotVResizable pins the height.
	NotVResizable
)

// Region names a part of a window's decoration.
type Region int

const (
	// RegionNone is the absence of a decorator region.
	RegionNone Region = iota
	// RegionTab is a window's title tab.
	RegionTab
	// RegionCloseButton is the close widget inside the tab.
	RegionCloseButton
	// RegionZoomButton is the zoom widget inside the tab.
	RegionZoomButton
	// RegionLeftBorder is the left frame edge.
	RegionLeftBorder
	// RegionRightBorder is the right frame edge.
	RegionRightBorder
	// RegionTopBorder is the top frame edge.
	RegionTopBorder
	// RegionBottomBorder is the bottom frame edge.
	RegionBottomBorder
	// RegionLeftTopCorner is the upper-left frame corner.
	RegionLeftTopCorner
	// RegionRightTopCorner is the upper-right frame corner.
	RegionRightTopCorner
	// RegionLeftBottomCorner is the lower-left frame corner.
	RegionLeftBottomCorner
	// RegionRightBottomCorner is the lower-right frame corner.
	RegionRightBottomCorner
	// RegionResizeKnob is the resize handle of document windows.
	RegionResizeKnob
)

// Highlight is a decorator region's visual emphasis state.
type Highlight uint8

const (
	// HighlightNone clears any emphasis.
	HighlightNone Highlight = iota
	// HighlightStackAndTile marks a region as a snapping candidate.
	HighlightStackAndTile
)

// PrimaryMouseButton is the button mask bit of the primary button.
const PrimaryMouseButton int32 = 1 << 0

// Decorator is the core's view of whatever draws a window's frame. Only
// geometry and highlight hooks are consumed.
type Decorator interface {
	// BorderWidth returns the frame thickness.
	BorderWidth() float64
	// TabHeight returns the title tab height.
	TabHeight() float64
	// TitleBarRect returns the full tab bar rectangle in desktop
	// coordinates.
	TitleBarRect() Rect
	// TabRect returns the rectangle of the tab at the given stack
	// position.
	TabRect(stackPosition int) Rect
	// RegionAt hit-tests a desktop point and returns the region and, for
	// tabs, the tab index.
	RegionAt(where Point) (Region, int)
	// SetRegionHighlight changes a region's highlight and returns the
	// dirty rectangle the change produced.
	SetRegionHighlight(region Region, tabIndex int, highlight Highlight) Rect
	// SizeLimits returns the decoration's own minimum and maximum
	// extents.
	SizeLimits() (minWidth, minHeight, maxWidth, maxHeight float64)
}

// Window is the core's handle on one top-level host window.
type Window interface {
	// Title returns the window title.
	Title() string
	// Frame returns the client frame in desktop coordinates, excluding
	// decoration.
	Frame() Rect
	// Look returns the decoration style.
	Look() Look
	// Feel returns the stacking feel.
	Feel() Feel
	// Flags returns the behavior bits.
	Flags() Flags
	// Decorator returns the window's decorator, or nil while undecorated.
	Decorator() Decorator
	// SizeLimits returns the client size limits.
	SizeLimits() (minWidth, maxWidth, minHeight, maxHeight float64)
	// SetSizeLimits overwrites the client size limits.
	SetSizeLimits(minWidth, maxWidth, minHeight, maxHeight float64)
	// IsHidden reports whether the window is currently hidden.
	IsHidden() bool
	// CurrentWorkspace returns the workspace the window lives on, or the
	// active one for windows on every workspace.
	CurrentWorkspace() int
	// Workspaces returns the workspace membership mask.
	Workspaces() uint32
	// AnchorPosition returns the window's stored position on the given
	// workspace, if it has one.
	AnchorPosition(workspace int) (Point, bool)
	// PositionInStack returns the window's tab index within its native
	// stack (0 when unstacked).
	PositionInStack() int
	// AddToStack merges the child's native window stack into this
	// window's stack. The host may refuse.
	AddToStack(child Window) bool
	// DetachFromStack removes the window from its native stack.
	DetachFromStack() bool
	// TopStackWindow returns the top window of the native stack this
	// window belongs to.
	TopStackWindow() Window
	// StackedWindowCount returns the size of the native stack.
	StackedWindowCount() int
	// ProcessDirtyRegion asks the host to repaint the given rectangle.
	ProcessDirtyRegion(dirty Rect)
}

// Desktop is the core's handle on the window server. All calls are
// synchronous and may reenter the core through listener hooks.
type Desktop interface {
	// Screen returns the screen frame.
	Screen() Rect
	// CurrentWorkspace returns the active workspace index.
	CurrentWorkspace() int
	// FocusWindow returns the focused window, or nil.
	FocusWindow() Window
	// CurrentWindows returns the visible windows of the active workspace
	// in back-to-front order.
	CurrentWindows() []Window
	// AllWindows returns every window the desktop knows, in back-to-front
	// order.
	AllWindows() []Window
	// LastMouseState returns the most recent pointer position and button
	// mask.
	LastMouseState() (where Point, buttons int32)
	// MoveWindowBy translates a window.
	MoveWindowBy(w Window, dx, dy float64)
	// ResizeWindowBy grows or shrinks a window.
	ResizeWindowBy(w Window, dx, dy float64)
	// ActivateWindow focuses a window and raises its native stack.
	ActivateWindow(w Window)
	// SendWindowBehind lowers w behind another window (or all windows
	// when behind is nil).
	SendWindowBehind(w, behind Window)
	// SetWindowWorkspaces changes a window's workspace membership mask.
	SetWindowWorkspaces(w Window, workspaces uint32)
	// NotifyMinimize minimizes or restores a window.
	NotifyMinimize(w Window, minimize bool)
}
