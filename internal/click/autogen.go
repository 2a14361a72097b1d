package click

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const header = "// This file is autogenerated. Do not hand edit.\n\n"

// Render writes the endpoint configuration: the header, then one KernelTun
// element per address, in the order the lists are given.
func Render(w io.Writer, lists ...[]string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return err
	}
	for _, list := range lists {
		for _, ip := range list {
			if _, err := fmt.Fprintf(bw, "KernelTun(%s/8) -> Discard;\n", ip); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteConfig replaces path with the configuration for servers, clients and
// dns hosts.
func WriteConfig(path string, servers, clients, dns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, servers, clients, dns); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// RemoveConfig deletes path. A missing file is not an error.
func RemoveConfig(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
