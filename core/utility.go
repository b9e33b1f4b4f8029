package core

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobuffalo/packd"
	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/shader"
	"github.com/devblok/koru-gles/utility/kar"
)

// ShaderBox holds the example shaders. packr embeds it at build time
// and reads the directory from disk otherwise.
var ShaderBox = packr.NewBox("../shaders")

// LoadShaderDirectory gets the shader sources found in dir.
// It is important that the file name does not contain more than one dot,
// the first part is the name of the program it belongs to, the second
// one is the type (vert, frag or comp). Other files are skipped.
func LoadShaderDirectory(dir string) ([]shader.Source, error) {
	var sources []shader.Source
	if err := filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			return nil
		}
		if _, ok := shader.NewSource(f.Name(), ""); !ok {
			return nil
		}
		text, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		src, _ := shader.NewSource(f.Name(), string(text))
		sources = append(sources, src)
		return nil
	}); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadShaderBox gets the shader sources embedded in a packr box,
// following the naming rule of LoadShaderDirectory.
func LoadShaderBox(box packr.Box) ([]shader.Source, error) {
	var sources []shader.Source
	if err := box.Walk(func(path string, f packd.File) error {
		if _, ok := shader.NewSource(path, ""); !ok {
			return nil
		}
		text, err := ioutil.ReadAll(f)
		if err != nil {
			return err
		}
		src, _ := shader.NewSource(path, string(text))
		sources = append(sources, src)
		return nil
	}); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadShaderArchive gets the shader sources stored in a kar archive,
// following the naming rule of LoadShaderDirectory.
func LoadShaderArchive(ar *kar.Archive) ([]shader.Source, error) {
	var sources []shader.Source
	for _, name := range ar.Names() {
		if _, ok := shader.NewSource(name, ""); !ok {
			continue
		}
		text, err := ar.ReadAll(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		src, _ := shader.NewSource(name, string(text))
		sources = append(sources, src)
	}
	return sources, nil
}

// LoadShaders loads sources from the archive when one is
// configured, from the directory otherwise. A directory that does not
// exist falls back to the shaders embedded in ShaderBox.
func LoadShaders(cfg ShaderConfiguration) ([]shader.Source, error) {
	if cfg.Archive != "" {
		ar, err := kar.OpenFile(cfg.Archive)
		if err != nil {
			return nil, err
		}
		defer ar.Close()
		return LoadShaderArchive(ar.Archive)
	}
	if _, err := os.Stat(cfg.Directory); os.IsNotExist(err) {
		log.WithField("directory", cfg.Directory).Info("Shader directory not found, using embedded shaders")
		return LoadShaderBox(ShaderBox)
	}
	return LoadShaderDirectory(cfg.Directory)
}

// ProgramSet is the group of sources sharing a name, ready to be
// handed to shader.Builder.Build.
type ProgramSet struct {
	Name    string
	Sources []shader.Source
}

// ProgramSets groups sources by name. Each group must hold a vertex
// and a fragment stage, or a single compute stage. Sets are sorted by
// name, vertex before fragment.
func ProgramSets(sources []shader.Source) ([]ProgramSet, error) {
	byName := make(map[string]map[shader.Kind]shader.Source)
	for _, src := range sources {
		kinds, ok := byName[src.Name]
		if !ok {
			kinds = make(map[shader.Kind]shader.Source)
			byName[src.Name] = kinds
		}
		if _, dup := kinds[src.Kind]; dup {
			return nil, fmt.Errorf("program %q has more than one %s stage", src.Name, src.Kind)
		}
		kinds[src.Kind] = src
	}

	sets := make([]ProgramSet, 0, len(byName))
	for name, kinds := range byName {
		set := ProgramSet{Name: name}
		vert, hasVert := kinds[shader.Vertex]
		frag, hasFrag := kinds[shader.Fragment]
		comp, hasComp := kinds[shader.Compute]
		switch {
		case hasComp && !hasVert && !hasFrag:
			set.Sources = []shader.Source{comp}
		case hasVert && hasFrag && !hasComp:
			set.Sources = []shader.Source{vert, frag}
		default:
			return nil, fmt.Errorf("program %q: %w", name, shader.ErrStageSet)
		}
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Name < sets[j].Name
	})
	return sets, nil
}

// FindProgramSet returns the set called name.
func FindProgramSet(sets []ProgramSet, name string) (ProgramSet, error) {
	for _, set := range sets {
		if set.Name == name {
			return set, nil
		}
	}
	return ProgramSet{}, fmt.Errorf("no shader sources for program %q", name)
}

// SliceInt32 reads data as little endian 32 bit integers, trailing
// bytes that do not fill a whole integer are ignored.
func SliceInt32(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

// Int32Bytes is the inverse of SliceInt32.
func Int32Bytes(values []int32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}
