package results

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jvlmdr/go-file/fileutil"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/sweep"
	"github.com/pkg/errors"
)

// PerfFile is the name of the file caching the cell of a configuration.
func PerfFile(dir string, p sweep.Param) string {
	return filepath.Join(dir, fmt.Sprintf("perf-%s.json", p.Key()))
}

// SaveCell writes a finalized cell to its perf file.
func SaveCell(dir string, c sweep.Cell) error {
	if !c.Final {
		return errors.Errorf("cell not finalized: %s", c.Param.ID())
	}
	return fileutil.SaveExt(PerfFile(dir, c.Param), c)
}

// LoadCached puts every configuration which has a perf file into table
// and returns the configurations which still need to be evaluated.
func LoadCached(dir string, params []sweep.Param, table *sweep.Table) ([]sweep.Param, error) {
	var todo []sweep.Param
	for _, p := range params {
		fname := PerfFile(dir, p)
		if _, err := os.Stat(fname); os.IsNotExist(err) {
			todo = append(todo, p)
			continue
		} else if err != nil {
			return nil, errors.Wrapf(err, "stat cache file %s", fname)
		}
		var c sweep.Cell
		if err := fileutil.LoadExt(fname, &c); err != nil {
			return nil, errors.Wrapf(err, "load cache file %s", fname)
		}
		if c.Param != p {
			return nil, errors.Errorf("cache file %s has param %s", fname, c.Param.ID())
		}
		table.Put(c)
	}
	if len(todo) == 0 {
		log.Println("all results have cache file")
	} else {
		log.Printf("number of configurations to evaluate: %d / %d", len(todo), len(params))
	}
	return todo, nil
}

// WritePerfs dumps the table to perfs.txt in dir.
func WritePerfs(dir string, table *sweep.Table, fields []string) error {
	out, err := os.Create(filepath.Join(dir, "perfs.txt"))
	if err != nil {
		return err
	}
	if err := table.WriteTSV(out, fields); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
