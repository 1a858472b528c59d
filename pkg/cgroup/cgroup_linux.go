package cgroup

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

func mkdir(p string, perm fs.FileMode) error {
	return os.Mkdir(p, perm)
}

func rmdir(p string) error {
	return os.Remove(p)
}

// writeFile writes content to p, retrying on EINTR the way the cgroup
// filesystem's slow-device writes can require.
func writeFile(p string, content []byte) error {
	err := os.WriteFile(p, content, 0644)
	for err != nil && errors.Is(err, syscall.EINTR) {
		err = os.WriteFile(p, content, 0644)
	}
	return err
}
