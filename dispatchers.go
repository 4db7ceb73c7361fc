package hypr

import (
	"strconv"
	"time"
)

// Window, workspace and monitor arguments use the compositor's selector
// syntax as plain strings: "address:0x1234", "class:^kitty$", "3", "+1",
// "name:web", "special:scratch", "DP-1". An empty window selects the active one.

func Workspace(workspace string) Command {
	return Dispatch("workspace", workspace)
}

func MoveToWorkspace(workspace string, window string) Command {
	return DispatchJoined("movetoworkspace", ",", workspace, window)
}

func MoveToWorkspaceSilent(workspace string, window string) Command {
	return DispatchJoined("movetoworkspacesilent", ",", workspace, window)
}

func ToggleSpecialWorkspace(name string) Command {
	return Dispatch("togglespecialworkspace", name)
}

func RenameWorkspace(id int, name string) Command {
	return Dispatch("renameworkspace", strconv.Itoa(id), name)
}

func FocusWindow(window string) Command {
	return Dispatch("focuswindow", window)
}

func FocusMonitor(monitor string) Command {
	return Dispatch("focusmonitor", monitor)
}

// MoveFocus moves focus in direction: "l", "r", "u" or "d".
func MoveFocus(direction string) Command {
	return Dispatch("movefocus", direction)
}

// MoveWindow moves the active window in a direction or to "mon:<name>".
func MoveWindow(target string, silent bool) Command {
	if silent {
		return Dispatch("movewindow", target, "silent")
	}
	return Dispatch("movewindow", target)
}

func ToggleFloating(window string) Command {
	return Dispatch("togglefloating", window)
}

func SetFloating(window string) Command {
	return Dispatch("setfloating", window)
}

func SetTiled(window string) Command {
	return Dispatch("settiled", window)
}

// Fullscreen sets mode 0 (fullscreen), 1 (maximize) or 2 (no gaps).
func Fullscreen(mode int) Command {
	return Dispatch("fullscreen", strconv.Itoa(mode))
}

func KillActive() Command {
	return Dispatch("killactive")
}

func CloseWindow(window string) Command {
	return Dispatch("closewindow", window)
}

func Pin(window string) Command {
	return Dispatch("pin", window)
}

func ToggleGroup() Command {
	return Dispatch("togglegroup")
}

func FocusUrgentOrLast() Command {
	return Dispatch("focusurgentorlast")
}

// Exec runs command through the compositor's shell.
func Exec(command string) Command {
	return Dispatch("exec", command)
}

// ResizeWindowPixel resizes window; params is "exact 800 600" or a relative "-10 20".
func ResizeWindowPixel(params string, window string) Command {
	return DispatchJoined("resizewindowpixel", ",", params, window)
}

func MoveWindowPixel(params string, window string) Command {
	return DispatchJoined("movewindowpixel", ",", params, window)
}

func MoveCursor(x int, y int) Command {
	return Dispatch("movecursor", strconv.Itoa(x), strconv.Itoa(y))
}

// SendCustomEvent emits data as a "custom" event on the event socket.
func SendCustomEvent(data string) Command {
	return Dispatch("event", data)
}

func Exit() Command {
	return Dispatch("exit")
}

// Keyword sets a config value at runtime.
func Keyword(name string, value string) Command {
	return Direct("keyword", name, value)
}

func Reload() Command {
	return Direct("reload")
}

func SetCursor(theme string, size int) Command {
	return Direct("setcursor", theme, strconv.Itoa(size))
}

// Notification icons.
const (
	IconNoIcon   = -1
	IconWarning  = 0
	IconInfo     = 1
	IconHint     = 2
	IconError    = 3
	IconConfused = 4
	IconOk       = 5
)

// Notify shows a notification. color is a compositor color such as
// "rgb(ff1ea3)"; "0" keeps the icon's default.
func Notify(icon int, duration time.Duration, color string, message string) Command {
	return Direct("notify", strconv.Itoa(icon), strconv.FormatInt(duration.Milliseconds(), 10), color, message)
}

// DismissNotify dismisses the oldest count notifications, or all of them
// when count is not positive.
func DismissNotify(count int) Command {
	if count <= 0 {
		count = -1
	}
	return Direct("dismissnotify", strconv.Itoa(count))
}

// SetError shows the error bar; "disable" as message hides it.
func SetError(color string, message string) Command {
	return Direct("seterror", color, message)
}
