package util

import (
	"encoding/json"
	"os"
	"path"
	"strings"
)

// takes a save path and a variable number of strings and writes them to file, one per line
func WriteToFile(savePath string, content ...string) error {
	if err := EnsureDir(path.Dir(savePath)); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(content, "\n")+"\n"), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	if err := EnsureDir(path.Dir(savePath)); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON replaces the file with the JSON encoding of v
func WriteJSON(savePath string, v interface{}) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return WriteToFile(savePath, string(bs))
}

// AppendJSONLine appends the JSON encoding of v as a single line
func AppendJSONLine(savePath string, v interface{}) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return AppendToFile(savePath, string(bs))
}

func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, os.ModePerm)
}

// RemoveContents deletes everything inside dir but keeps dir itself
func RemoveContents(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := os.RemoveAll(path.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
