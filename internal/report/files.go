package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/pkg/htmldoc"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/json"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsExist(err) {
			return true
		}

		return false
	}
	return true
}

func getOutputFile(outfile string) (string, error) {
	if outfile == "" {
		outfile = config.DefaultReportFile
	}

	folder := filepath.Dir(outfile)
	if !exists(folder) {
		err := os.MkdirAll(folder, os.FileMode(0755))
		if err != nil {
			return "", err
		}
	}

	return outfile, nil
}

// SaveHTML overwrites outfile with the indented document.
func SaveHTML(outfile string, d *htmldoc.Doc) error {
	filename, err := getOutputFile(outfile)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err = d.Indent(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}

	if err = f.Close(); err != nil {
		return err
	}

	log.Printf("Output file is saved in: %s", config.Yellow(filename))

	return nil
}

func ReportToJson(outfile string, sections []*Section) error {
	filename, err := getOutputFile(outfile)
	if err != nil {
		return err
	}

	data, err := json.Marshal(sections)
	if err != nil {
		return err
	}
	err = os.WriteFile(filename, data, 0644)
	if err != nil {
		return err
	}

	log.Printf("Json file is saved in: %s", config.Yellow(filename))

	return nil
}
