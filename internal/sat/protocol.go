package sat

// The client-facing message protocol. One magic identifier tags
// stack-and-tile messages on the host's IPC link, a target selects the
// behavior, and an operation code selects the request. The transport is
// the host's business; the core only sees decoded requests and produces
// replies.

// MagicSATIdentifier tags stack-and-tile messages ('SATI').
const MagicSATIdentifier int32 = 0x53415449

// Target selects which behavior a message addresses.
type Target int32

const (
	// TargetStacking addresses the stacking operations.
	TargetStacking Target = iota
	// TargetTiling addresses the tiling operations.
	TargetTiling
)

// OpCode selects the requested operation.
type OpCode int32

const (
	// OpAddWindowToStack inserts a window into the sender's stack.
	OpAddWindowToStack OpCode = iota
	// OpRemoveWindowFromStack removes a given window from its stack.
	OpRemoveWindowFromStack
	// OpRemoveWindowFromStackAt removes the window at a stack position.
	OpRemoveWindowFromStackAt
	// OpCountWindowsOnStack returns the stack size.
	OpCountWindowsOnStack
	// OpWindowOnStackAt returns the window at a stack position.
	OpWindowOnStackAt
	// OpStackHasWindow checks stack membership.
	OpStackHasWindow

	// OpSaveAllGroups archives every multi-window group.
	OpSaveAllGroups
	// OpRestoreGroup rebuilds one group from an archive.
	OpRestoreGroup
)

// Status is the reply status of a protocol request.
type Status int32

const (
	// StatusOK reports success.
	StatusOK Status = iota
	// StatusError reports an internal failure.
	StatusError
	// StatusBadValue reports an invalid request payload; nothing was
	// mutated.
	StatusBadValue
)

// Request is one decoded client message.
type Request struct {
	Magic    int32
	Target   Target
	Op       OpCode
	WindowID uint64
	Position int32
	Payload  []byte
}

// Reply carries a request's result.
type Reply struct {
	Status   Status
	WindowID uint64
	Count    int32
	Has      bool
	Payload  []byte
}

// HandleMessage serves a client request sent through the given window
// (nil for session-level requests). It reports whether the message was
// recognized at all.
func (c *Controller) HandleMessage(sender *Window, request *Request) (Reply, bool) {
	if request == nil || request.Magic != MagicSATIdentifier {
		return Reply{Status: StatusBadValue}, false
	}

	if sender == nil {
		return c.handleSessionMessage(request)
	}
	if request.Target == TargetStacking {
		return c.handleStackingMessage(sender, request)
	}
	return Reply{Status: StatusBadValue}, false
}

func (c *Controller) handleStackingMessage(sender *Window,
	request *Request) (Reply, bool) {
	switch request.Op {
	case OpAddWindowToStack:
		area := sender.GetWindowArea()
		if area == nil {
			return Reply{Status: StatusError}, false
		}
		position := request.Position
		if position < 0 {
			position = int32(len(area.WindowList()) - 1)
		}
		if int(position) >= len(area.WindowList()) {
			return Reply{Status: StatusBadValue}, true
		}
		parent := area.WindowList()[position]
		candidate := c.FindWindowByID(request.WindowID)
		if parent == nil || candidate == nil {
			return Reply{Status: StatusBadValue}, true
		}
		if !parent.StackWindow(candidate) {
			return Reply{Status: StatusError}, false
		}
		return Reply{Status: StatusOK}, true

	case OpRemoveWindowFromStack:
		group := sender.GetGroup()
		if group == nil {
			return Reply{Status: StatusError}, false
		}
		candidate := c.FindWindowByID(request.WindowID)
		if candidate == nil {
			return Reply{Status: StatusBadValue}, true
		}
		if !group.RemoveWindow(candidate, false) {
			return Reply{Status: StatusError}, false
		}
		return Reply{Status: StatusOK}, true

	case OpRemoveWindowFromStackAt:
		group := sender.GetGroup()
		area := sender.GetWindowArea()
		if area == nil || group == nil {
			return Reply{Status: StatusError}, false
		}
		if request.Position < 0 ||
			int(request.Position) >= len(area.WindowList()) {
			return Reply{Status: StatusBadValue}, true
		}
		removeWindow := area.WindowList()[request.Position]
		if !group.RemoveWindow(removeWindow, false) {
			return Reply{Status: StatusError}, false
		}
		return Reply{Status: StatusOK, WindowID: removeWindow.ID()}, true

	case OpCountWindowsOnStack:
		area := sender.GetWindowArea()
		if area == nil {
			return Reply{Status: StatusError}, false
		}
		return Reply{Status: StatusOK, Count: int32(len(area.WindowList()))}, true

	case OpWindowOnStackAt:
		area := sender.GetWindowArea()
		if area == nil {
			return Reply{Status: StatusError}, false
		}
		if request.Position < 0 ||
			int(request.Position) >= len(area.WindowList()) {
			return Reply{Status: StatusBadValue}, true
		}
		window := area.WindowList()[request.Position]
		return Reply{Status: StatusOK, WindowID: window.ID()}, true

	case OpStackHasWindow:
		candidate := c.FindWindowByID(request.WindowID)
		if candidate == nil {
			return Reply{Status: StatusBadValue}, true
		}
		area := sender.GetWindowArea()
		if area == nil {
			return Reply{Status: StatusError}, false
		}
		return Reply{Status: StatusOK,
			Has: containsWindow(area.WindowList(), candidate)}, true
	}

	return Reply{Status: StatusBadValue}, false
}

func (c *Controller) handleSessionMessage(request *Request) (Reply, bool) {
	switch request.Op {
	case OpSaveAllGroups:
		session := &SessionArchive{}
		groups := NewGroupIterator(c, c.desktop)
		for {
			group := groups.NextGroup()
			if group == nil {
				break
			}
			if group.CountItems() <= 1 {
				continue
			}
			session.Groups = append(session.Groups, *group.ArchiveGroup())
		}
		payload, err := session.Flatten()
		if err != nil {
			return Reply{Status: StatusError}, true
		}
		return Reply{Status: StatusOK, Payload: payload}, true

	case OpRestoreGroup:
		archive, err := UnflattenGroupArchive(request.Payload)
		if err != nil {
			return Reply{Status: StatusBadValue}, true
		}
		if err := RestoreGroup(archive, c); err != nil {
			return Reply{Status: StatusBadValue}, true
		}
		return Reply{Status: StatusOK}, true
	}

	return Reply{Status: StatusBadValue}, false
}
