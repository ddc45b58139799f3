package fans

import (
	"os"
	"sync"
	"syscall"

	"github.com/spf13/afero"
)

// recordingFs counts write opens per path and can refuse selected paths
type recordingFs struct {
	afero.Fs

	mu         sync.Mutex
	writes     map[string]int
	denied     map[string]bool
	readDenied map[string]bool
}

func newRecordingFs(base afero.Fs) *recordingFs {
	return &recordingFs{
		Fs:         base,
		writes:     map[string]int{},
		denied:     map[string]bool{},
		readDenied: map[string]bool{},
	}
}

func (r *recordingFs) denyRead(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readDenied[path] = true
}

func (r *recordingFs) deny(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denied[path] = true
}

func (r *recordingFs) writeCount(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[path]
}

func (r *recordingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	isWrite := flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0
	r.mu.Lock()
	denied := r.denied[name]
	if isWrite && !denied && flag&os.O_RDWR == 0 {
		r.writes[name]++
	}
	r.mu.Unlock()

	if isWrite && denied {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EACCES}
	}
	return r.Fs.OpenFile(name, flag, perm)
}

func (r *recordingFs) Open(name string) (afero.File, error) {
	r.mu.Lock()
	denied := r.readDenied[name]
	r.mu.Unlock()

	if denied {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EIO}
	}
	return r.Fs.Open(name)
}

// discardingFs accepts every write without changing the files, like a
// driver that ignores the written value
type discardingFs struct {
	afero.Fs
	scratch afero.Fs
}

func newDiscardingFs(base afero.Fs) *discardingFs {
	return &discardingFs{Fs: base, scratch: afero.NewMemMapFs()}
}

func (d *discardingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return d.scratch.OpenFile(name, flag|os.O_CREATE, perm)
	}
	return d.Fs.OpenFile(name, flag, perm)
}

func writeSysfsFile(fs afero.Fs, path string, content string) {
	err := afero.WriteFile(fs, path, []byte(content), 0644)
	if err != nil {
		panic(err)
	}
}
