package oscall

import (
	"strings"
	"sync"
	"syscall"
)

// Mem is a Surface backed by an in-memory directory tree. It models a kernel
// that keeps the working directory of a task as an absolute path string and
// copies it into the user buffer on getcwd.
//
// The zero value is not usable; use NewMem.
type Mem struct {
	mu   sync.Mutex
	root *memNode
	cwd  string
}

type memNode struct {
	children map[string]*memNode // nil for regular files
	data     []byte
}

func newMemDir() *memNode { return &memNode{children: map[string]*memNode{}} }

func (n *memNode) isDir() bool { return n.children != nil }

// NewMem returns a Mem with an empty root directory as the working directory.
func NewMem() *Mem {
	return &Mem{root: newMemDir(), cwd: "/"}
}

// Cwd returns the working directory.
func (m *Mem) Cwd() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cwd
}

// Chdir implements Surface.
func (m *Mem) Chdir(path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, abs, err := m.walk(path)
	if err != nil {
		return Failed, err
	}
	if !node.isDir() {
		return Failed, syscall.ENOTDIR
	}
	m.cwd = abs
	return OK, nil
}

// Getcwd implements Surface.
func (m *Mem) Getcwd(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fillCwd(buf, m.cwd)
}

// Mkdir creates a directory. The parent must exist.
func (m *Mem) Mkdir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.create(path, newMemDir())
	return err
}

// MkdirAll creates a directory and all missing ancestors. It is not an error
// if the directory already exists.
func (m *Mem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comps, err := m.components(path)
	if err != nil {
		return err
	}
	node := m.root
	for _, comp := range comps {
		child, ok := node.children[comp]
		if !ok {
			child = newMemDir()
			node.children[comp] = child
		} else if !child.isDir() {
			return syscall.ENOTDIR
		}
		node = child
	}
	return nil
}

// WriteFile creates or replaces a regular file. The parent must exist.
func (m *Mem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, err := m.create(path, &memNode{})
	if err == syscall.EEXIST && node.isDir() {
		return syscall.EISDIR
	} else if err != nil && err != syscall.EEXIST {
		return err
	}
	node.data = append([]byte(nil), data...)
	return nil
}

// create inserts n at path, returning the existing node and EEXIST if there is
// one already.
func (m *Mem) create(path string, n *memNode) (*memNode, error) {
	comps, err := m.components(path)
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return m.root, syscall.EEXIST
	}
	parent, err := m.lookup(comps[:len(comps)-1])
	if err != nil {
		return nil, err
	}
	if !parent.isDir() {
		return nil, syscall.ENOTDIR
	}
	name := comps[len(comps)-1]
	if existing, ok := parent.children[name]; ok {
		return existing, syscall.EEXIST
	}
	parent.children[name] = n
	return n, nil
}

// walk resolves path and returns the node and its absolute path.
func (m *Mem) walk(path string) (*memNode, string, error) {
	comps, err := m.components(path)
	if err != nil {
		return nil, "", err
	}
	node, err := m.lookup(comps)
	if err != nil {
		return nil, "", err
	}
	return node, "/" + strings.Join(comps, "/"), nil
}

// components splits path into the components of its absolute form, resolving
// "." and "..". Every component before a ".." must be an existing directory,
// as when the kernel resolves the path one step at a time.
func (m *Mem) components(path string) ([]string, error) {
	if path == "" {
		return nil, syscall.ENOENT
	}
	var comps []string
	if !strings.HasPrefix(path, "/") {
		comps = splitPath(m.cwd)
	}
	for _, comp := range splitPath(path) {
		switch comp {
		case ".", "..":
			node, err := m.lookup(comps)
			if err != nil {
				return nil, err
			}
			if !node.isDir() {
				return nil, syscall.ENOTDIR
			}
			if comp == ".." && len(comps) > 0 {
				comps = comps[:len(comps)-1]
			}
		default:
			comps = append(comps, comp)
		}
	}
	return comps, nil
}

func (m *Mem) lookup(comps []string) (*memNode, error) {
	node := m.root
	for _, comp := range comps {
		if !node.isDir() {
			return nil, syscall.ENOTDIR
		}
		child, ok := node.children[comp]
		if !ok {
			return nil, syscall.ENOENT
		}
		node = child
	}
	return node, nil
}

func splitPath(path string) []string {
	var comps []string
	for _, comp := range strings.Split(path, "/") {
		if comp != "" {
			comps = append(comps, comp)
		}
	}
	return comps
}
