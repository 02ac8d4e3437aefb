package loader

import "os"

// textLoader handles plain text and markdown files as a single page.
type textLoader struct{}

func (textLoader) Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []string{string(data)}, nil
}
