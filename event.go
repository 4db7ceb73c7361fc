package hypr

// Event is one notification from the event socket. The concrete type is one
// of the *Event structs in this package, or CustomEvent for names the client
// does not know.
type Event interface {
	EventName() string
	event()
}

// Event names as they appear on the wire.
const (
	EventWorkspace          = "workspace"
	EventWorkspaceV2        = "workspacev2"
	EventFocusedMonitor     = "focusedmon"
	EventFocusedMonitorV2   = "focusedmonv2"
	EventActiveWindow       = "activewindow"
	EventActiveWindowV2     = "activewindowv2"
	EventFullscreen         = "fullscreen"
	EventMonitorRemoved     = "monitorremoved"
	EventMonitorAdded       = "monitoradded"
	EventMonitorAddedV2     = "monitoraddedv2"
	EventCreateWorkspace    = "createworkspace"
	EventCreateWorkspaceV2  = "createworkspacev2"
	EventDestroyWorkspace   = "destroyworkspace"
	EventDestroyWorkspaceV2 = "destroyworkspacev2"
	EventMoveWorkspace      = "moveworkspace"
	EventMoveWorkspaceV2    = "moveworkspacev2"
	EventRenameWorkspace    = "renameworkspace"
	EventActiveSpecial      = "activespecial"
	EventActiveLayout       = "activelayout"
	EventOpenWindow         = "openwindow"
	EventCloseWindow        = "closewindow"
	EventMoveWindow         = "movewindow"
	EventMoveWindowV2       = "movewindowv2"
	EventOpenLayer          = "openlayer"
	EventCloseLayer         = "closelayer"
	EventSubmap             = "submap"
	EventChangeFloatingMode = "changefloatingmode"
	EventUrgent             = "urgent"
	EventScreencast         = "screencast"
	EventWindowTitle        = "windowtitle"
	EventWindowTitleV2      = "windowtitlev2"
	EventToggleGroup        = "togglegroup"
	EventMoveIntoGroup      = "moveintogroup"
	EventMoveOutOfGroup     = "moveoutofgroup"
	EventIgnoreGroupLock    = "ignoregrouplock"
	EventLockGroups         = "lockgroups"
	EventConfigReloaded     = "configreloaded"
	EventPin                = "pin"
)

type WorkspaceEvent struct {
	Name string
}

type WorkspaceV2Event struct {
	ID   int64
	Name string
}

type FocusedMonitorEvent struct {
	Monitor   string
	Workspace string
}

type FocusedMonitorV2Event struct {
	Monitor     string
	WorkspaceID int64
}

type ActiveWindowEvent struct {
	Class string
	Title string
}

type ActiveWindowV2Event struct {
	Address string
}

type FullscreenEvent struct {
	Fullscreen bool
}

type MonitorRemovedEvent struct {
	Name string
}

type MonitorAddedEvent struct {
	Name string
}

type MonitorAddedV2Event struct {
	ID          int64
	Name        string
	Description string
}

type CreateWorkspaceEvent struct {
	Name string
}

type CreateWorkspaceV2Event struct {
	ID   int64
	Name string
}

type DestroyWorkspaceEvent struct {
	Name string
}

type DestroyWorkspaceV2Event struct {
	ID   int64
	Name string
}

type MoveWorkspaceEvent struct {
	Name    string
	Monitor string
}

type MoveWorkspaceV2Event struct {
	ID      int64
	Name    string
	Monitor string
}

type RenameWorkspaceEvent struct {
	ID   int64
	Name string
}

// ActiveSpecialEvent reports the special workspace shown on a monitor. Name
// is empty when the special workspace was hidden.
type ActiveSpecialEvent struct {
	Name    string
	Monitor string
}

type ActiveLayoutEvent struct {
	Keyboard string
	Layout   string
}

type OpenWindowEvent struct {
	Address   string
	Workspace string
	Class     string
	Title     string
}

type CloseWindowEvent struct {
	Address string
}

type MoveWindowEvent struct {
	Address   string
	Workspace string
}

type MoveWindowV2Event struct {
	Address     string
	WorkspaceID int64
	Workspace   string
}

type OpenLayerEvent struct {
	Namespace string
}

type CloseLayerEvent struct {
	Namespace string
}

// SubmapEvent reports a keybind submap change. Name is empty for the default map.
type SubmapEvent struct {
	Name string
}

type ChangeFloatingModeEvent struct {
	Address  string
	Floating bool
}

type UrgentEvent struct {
	Address string
}

type ScreencastEvent struct {
	Active bool
	Owner  string
}

type WindowTitleEvent struct {
	Address string
}

type WindowTitleV2Event struct {
	Address string
	Title   string
}

// ToggleGroupEvent reports a group being created (Open) or destroyed along
// with the addresses of its windows.
type ToggleGroupEvent struct {
	Open    bool
	Handles []string
}

type MoveIntoGroupEvent struct {
	Address string
}

type MoveOutOfGroupEvent struct {
	Address string
}

type IgnoreGroupLockEvent struct {
	On bool
}

type LockGroupsEvent struct {
	On bool
}

type ConfigReloadedEvent struct{}

type PinEvent struct {
	Address string
	Pinned  bool
}

// CustomEvent carries an event the decoder has no variant for. Data is the
// payload exactly as received.
type CustomEvent struct {
	Name string
	Data string
}

func (WorkspaceEvent) EventName() string { return EventWorkspace }
func (WorkspaceV2Event) EventName() string { return EventWorkspaceV2 }
func (FocusedMonitorEvent) EventName() string { return EventFocusedMonitor }
func (FocusedMonitorV2Event) EventName() string { return EventFocusedMonitorV2 }
func (ActiveWindowEvent) EventName() string { return EventActiveWindow }
func (ActiveWindowV2Event) EventName() string { return EventActiveWindowV2 }
func (FullscreenEvent) EventName() string { return EventFullscreen }
func (MonitorRemovedEvent) EventName() string { return EventMonitorRemoved }
func (MonitorAddedEvent) EventName() string { return EventMonitorAdded }
func (MonitorAddedV2Event) EventName() string { return EventMonitorAddedV2 }
func (CreateWorkspaceEvent) EventName() string { return EventCreateWorkspace }
func (CreateWorkspaceV2Event) EventName() string { return EventCreateWorkspaceV2 }
func (DestroyWorkspaceEvent) EventName() string { return EventDestroyWorkspace }
func (DestroyWorkspaceV2Event) EventName() string { return EventDestroyWorkspaceV2 }
func (MoveWorkspaceEvent) EventName() string { return EventMoveWorkspace }
func (MoveWorkspaceV2Event) EventName() string { return EventMoveWorkspaceV2 }
func (RenameWorkspaceEvent) EventName() string { return EventRenameWorkspace }
func (ActiveSpecialEvent) EventName() string { return EventActiveSpecial }
func (ActiveLayoutEvent) EventName() string { return EventActiveLayout }
func (OpenWindowEvent) EventName() string { return EventOpenWindow }
func (CloseWindowEvent) EventName() string { return EventCloseWindow }
func (MoveWindowEvent) EventName() string { return EventMoveWindow }
func (MoveWindowV2Event) EventName() string { return EventMoveWindowV2 }
func (OpenLayerEvent) EventName() string { return EventOpenLayer }
func (CloseLayerEvent) EventName() string { return EventCloseLayer }
func (SubmapEvent) EventName() string { return EventSubmap }
func (ChangeFloatingModeEvent) EventName() string { return EventChangeFloatingMode }
func (UrgentEvent) EventName() string { return EventUrgent }
func (ScreencastEvent) EventName() string { return EventScreencast }
func (WindowTitleEvent) EventName() string { return EventWindowTitle }
func (WindowTitleV2Event) EventName() string { return EventWindowTitleV2 }
func (ToggleGroupEvent) EventName() string { return EventToggleGroup }
func (MoveIntoGroupEvent) EventName() string { return EventMoveIntoGroup }
func (MoveOutOfGroupEvent) EventName() string { return EventMoveOutOfGroup }
func (IgnoreGroupLockEvent) EventName() string { return EventIgnoreGroupLock }
func (LockGroupsEvent) EventName() string { return EventLockGroups }
func (ConfigReloadedEvent) EventName() string { return EventConfigReloaded }
func (PinEvent) EventName() string { return EventPin }
func (event CustomEvent) EventName() string { return event.Name }

func (WorkspaceEvent) event() {}
func (WorkspaceV2Event) event() {}
func (FocusedMonitorEvent) event() {}
func (FocusedMonitorV2Event) event() {}
func (ActiveWindowEvent) event() {}
func (ActiveWindowV2Event) event() {}
func (FullscreenEvent) event() {}
func (MonitorRemovedEvent) event() {}
func (MonitorAddedEvent) event() {}
func (MonitorAddedV2Event) event() {}
func (CreateWorkspaceEvent) event() {}
func (CreateWorkspaceV2Event) event() {}
func (DestroyWorkspaceEvent) event() {}
func (DestroyWorkspaceV2Event) event() {}
func (MoveWorkspaceEvent) event() {}
func (MoveWorkspaceV2Event) event() {}
func (RenameWorkspaceEvent) event() {}
func (ActiveSpecialEvent) event() {}
func (ActiveLayoutEvent) event() {}
func (OpenWindowEvent) event() {}
func (CloseWindowEvent) event() {}
func (MoveWindowEvent) event() {}
func (MoveWindowV2Event) event() {}
func (OpenLayerEvent) event() {}
func (CloseLayerEvent) event() {}
func (SubmapEvent) event() {}
func (ChangeFloatingModeEvent) event() {}
func (UrgentEvent) event() {}
func (ScreencastEvent) event() {}
func (WindowTitleEvent) event() {}
func (WindowTitleV2Event) event() {}
func (ToggleGroupEvent) event() {}
func (MoveIntoGroupEvent) event() {}
func (MoveOutOfGroupEvent) event() {}
func (IgnoreGroupLockEvent) event() {}
func (LockGroupsEvent) event() {}
func (ConfigReloadedEvent) event() {}
func (PinEvent) event() {}
func (CustomEvent) event() {}
