package player

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/dexterlb/mpvipc"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ipcDialTimeout = 5 * time.Second
	quitGrace      = 2 * time.Second
)

// MPV drives an external mpv process over its JSON IPC socket
type MPV struct {
	cmd    *exec.Cmd
	socket string
	conn   *mpvipc.Connection

	mu     sync.Mutex
	closed bool
}

// StartMPV launches mpv paused on target and connects to its IPC socket.
// audioOnly disables the video window.
func StartMPV(binary, target string, audioOnly bool) (*MPV, error) {
	if binary == "" {
		binary = "mpv"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("mpv not found: %w", err)
	}

	socket := filepath.Join(os.TempDir(), "vidbrief-mpv-"+uuid.NewString()+".sock")
	args := []string{
		"--idle=yes",
		"--pause",
		"--really-quiet",
		"--input-ipc-server=" + socket,
	}
	if audioOnly {
		args = append(args, "--no-video")
	} else {
		args = append(args, "--force-window=yes")
	}
	args = append(args, target)

	cmd := exec.Command(binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	conn, err := dialSocket(socket, ipcDialTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"target": target,
		"socket": socket,
		"audio":  audioOnly,
	}).Info("Started mpv")

	m := newMPVConn(conn)
	m.cmd = cmd
	m.socket = socket
	return m, nil
}

// dialSocket retries until mpv has created its socket
func dialSocket(path string, timeout time.Duration) (*mpvipc.Connection, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn := mpvipc.NewConnection(path)
		err := conn.Open()
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("failed to connect to mpv ipc at %s: %w", path, err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func newMPVConn(conn *mpvipc.Connection) *MPV {
	return &MPV{conn: conn}
}

func (m *MPV) live() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("mpv: player destroyed")
	}
	return nil
}

// SeekTo jumps to an absolute position in seconds
func (m *MPV) SeekTo(seconds float64) error {
	if err := m.live(); err != nil {
		return err
	}
	if _, err := m.conn.Call("seek", seconds, "absolute"); err != nil {
		return fmt.Errorf("mpv: seek: %w", err)
	}
	return nil
}

// Play resumes playback
func (m *MPV) Play() error {
	return m.setPause(false)
}

// Pause pauses playback
func (m *MPV) Pause() error {
	return m.setPause(true)
}

func (m *MPV) setPause(paused bool) error {
	if err := m.live(); err != nil {
		return err
	}
	if err := m.conn.Set("pause", paused); err != nil {
		return fmt.Errorf("mpv: set pause: %w", err)
	}
	return nil
}

// Paused reports mpv's pause property
func (m *MPV) Paused() (bool, error) {
	if err := m.live(); err != nil {
		return false, err
	}
	v, err := m.conn.Get("pause")
	if err != nil {
		return false, fmt.Errorf("mpv: get pause: %w", err)
	}
	paused, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: unexpected pause property %v", v)
	}
	return paused, nil
}

// TogglePause flips playback and reports whether it is now playing
func (m *MPV) TogglePause() (bool, error) {
	paused, err := m.Paused()
	if err != nil {
		return false, err
	}
	if paused {
		return true, m.Play()
	}
	return false, m.Pause()
}

// Progress reads the time-pos and duration properties. Either is zero while
// mpv has not loaded the file yet.
func (m *MPV) Progress() (Progress, error) {
	if err := m.live(); err != nil {
		return Progress{}, err
	}
	var p Progress
	for prop, dst := range map[string]*float64{"time-pos": &p.Position, "duration": &p.Duration} {
		v, err := m.conn.Get(prop)
		if err != nil {
			// unavailable until the file is loaded
			logrus.WithError(err).WithField("property", prop).Debug("mpv property unavailable")
			continue
		}
		if f, ok := v.(float64); ok {
			*dst = f
		}
	}
	return p, nil
}

// Destroy quits mpv and removes its socket
func (m *MPV) Destroy() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	// mpv may drop the socket before it answers quit
	replied := make(chan struct{})
	go func() {
		defer close(replied)
		if _, err := m.conn.Call("quit"); err != nil {
			logrus.WithError(err).Debug("mpv quit command failed")
		}
	}()
	select {
	case <-replied:
	case <-time.After(quitGrace):
	}
	_ = m.conn.Close()

	if m.cmd != nil {
		done := make(chan struct{})
		go func() {
			_ = m.cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(quitGrace):
			_ = m.cmd.Process.Kill()
			<-done
		}
	}
	if m.socket != "" {
		_ = os.Remove(m.socket)
	}
	return nil
}
