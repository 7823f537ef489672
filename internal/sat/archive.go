package sat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Archive field names follow the wire schema: tab counts per
// orientation, then per area the four tab indices and the member window
// ids in tab order. Window geometry is not archived; the windows' own
// frames reconstruct it on the first layout.

// AreaArchive is the serialized form of one window area.
type AreaArchive struct {
	LeftTab   int32    `json:"left_tab"`
	RightTab  int32    `json:"right_tab"`
	TopTab    int32    `json:"top_tab"`
	BottomTab int32    `json:"bottom_tab"`
	Windows   []uint64 `json:"window"`
}

// GroupArchive is the serialized form of one group.
type GroupArchive struct {
	HTabCount int32         `json:"htab_count"`
	VTabCount int32         `json:"vtab_count"`
	Areas     []AreaArchive `json:"area"`
}

// SessionArchive bundles every multi-window group of a session.
type SessionArchive struct {
	Groups []GroupArchive `json:"group"`
}

// ErrBadArchive marks a structurally invalid group archive.
var ErrBadArchive = errors.New("bad group archive")

// ArchiveGroup serializes the group's structure.
func (g *Group) ArchiveGroup() *GroupArchive {
	archive := &GroupArchive{
		HTabCount: int32(len(g.horizontalTabs)),
		VTabCount: int32(len(g.verticalTabs)),
	}

	for _, area := range g.areas {
		areaArchive := AreaArchive{
			LeftTab:   int32(indexOfTab(g.verticalTabs, area.LeftTab())),
			RightTab:  int32(indexOfTab(g.verticalTabs, area.RightTab())),
			TopTab:    int32(indexOfTab(g.horizontalTabs, area.TopTab())),
			BottomTab: int32(indexOfTab(g.horizontalTabs, area.BottomTab())),
		}
		for _, window := range area.WindowList() {
			areaArchive.Windows = append(areaArchive.Windows, window.ID())
		}
		archive.Areas = append(archive.Areas, areaArchive)
	}
	return archive
}

// Flatten encodes the archive for the wire.
func (a *GroupArchive) Flatten() ([]byte, error) {
	return json.Marshal(a)
}

// UnflattenGroupArchive decodes a flattened group archive.
func UnflattenGroupArchive(data []byte) (*GroupArchive, error) {
	var archive GroupArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	return &archive, nil
}

// Flatten encodes the session archive for the wire.
func (a *SessionArchive) Flatten() ([]byte, error) {
	return json.Marshal(a)
}

// UnflattenSessionArchive decodes a flattened session archive.
func UnflattenSessionArchive(data []byte) (*SessionArchive, error) {
	var archive SessionArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	return &archive, nil
}

// RestoreGroup rebuilds a group from an archive, looking up the member
// windows by id in the controller's registry. Unknown ids are skipped.
func RestoreGroup(archive *GroupArchive, controller *Controller) error {
	group := NewGroup()

	tempHTabs := make([]*Tab, 0, archive.HTabCount)
	for i := int32(0); i < archive.HTabCount; i++ {
		tab := group.addHorizontalTab(0)
		if tab == nil {
			return fmt.Errorf("%w: horizontal tab allocation failed", ErrBadArchive)
		}
		tempHTabs = append(tempHTabs, tab)
	}
	tempVTabs := make([]*Tab, 0, archive.VTabCount)
	for i := int32(0); i < archive.VTabCount; i++ {
		tab := group.addVerticalTab(0)
		if tab == nil {
			return fmt.Errorf("%w: vertical tab allocation failed", ErrBadArchive)
		}
		tempVTabs = append(tempVTabs, tab)
	}
	defer func() {
		for _, tab := range tempHTabs {
			tab.releaseReference()
		}
		for _, tab := range tempVTabs {
			tab.releaseReference()
		}
	}()

	for _, areaArchive := range archive.Areas {
		if int(areaArchive.LeftTab) >= len(tempVTabs) ||
			int(areaArchive.RightTab) >= len(tempVTabs) ||
			areaArchive.LeftTab < 0 || areaArchive.RightTab < 0 {
			return fmt.Errorf("%w: vertical tab index out of range", ErrBadArchive)
		}
		if int(areaArchive.TopTab) >= len(tempHTabs) ||
			int(areaArchive.BottomTab) >= len(tempHTabs) ||
			areaArchive.TopTab < 0 || areaArchive.BottomTab < 0 {
			return fmt.Errorf("%w: horizontal tab index out of range", ErrBadArchive)
		}

		left := tempVTabs[areaArchive.LeftTab]
		right := tempVTabs[areaArchive.RightTab]
		top := tempHTabs[areaArchive.TopTab]
		bottom := tempHTabs[areaArchive.BottomTab]

		var prevWindow *Window
		for _, windowID := range areaArchive.Windows {
			window := controller.FindWindowByID(windowID)
			if window == nil {
				continue
			}

			if prevWindow == nil {
				if !group.AddWindow(window, left, top, right, bottom) {
					continue
				}
				prevWindow = window
			} else {
				if !prevWindow.StackWindow(window) {
					continue
				}
				prevWindow = window
			}
		}
	}
	return nil
}

func indexOfTab(list []*Tab, tab *Tab) int {
	for i, candidate := range list {
		if candidate == tab {
			return i
		}
	}
	return -1
}
