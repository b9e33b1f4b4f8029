// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kar packs a shader directory into a kar archive, lists an
// archive or extracts it again.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/shader"
	"github.com/devblok/koru-gles/utility/kar"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		currentUserName = u.Username
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the given archive into the directory given by -d")
	compress        = flag.String("c", "", "Compress the given shader folder")
	list            = flag.String("l", "", "List the contents of the given archive")
	all             = flag.Bool("all", false, "Compress every file, not only shader sources")
	dstFile         = flag.String("f", "out.kar", "Destination file")
	dstDir          = flag.String("d", ".", "Destination directory when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	var ops int
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal(errors.New("only one operation at a time"))
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles()
	case *extract != "":
		err = extractFiles()
	case *list != "":
		err = listFiles()
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	if err := filepath.Walk(*compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := shader.NewSource(info.Name(), ""); !ok && !*all {
			log.WithField("file", path).Debug("Skipping, not a shader source")
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	name := *author
	if name == "" {
		name = currentUserName
	}
	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	for _, ftc := range filesToCompress {
		rel, err := filepath.Rel(*compress, ftc)
		if err != nil {
			return err
		}
		f, err := os.Open(ftc)
		if err != nil {
			return err
		}
		err = karBuilder.Add(filepath.ToSlash(rel), f)
		f.Close()
		if err != nil {
			return err
		}
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	written, err := karBuilder.WriteTo(dst)
	if err != nil {
		dst.Close()
		os.Remove(*dstFile)
		return err
	}
	log.WithFields(log.Fields{
		"archive": *dstFile,
		"files":   len(filesToCompress),
		"bytes":   written,
	}).Info("Archive written")
	return dst.Close()
}

func extractFiles() error {
	ar, err := kar.OpenFile(*extract)
	if err != nil {
		return err
	}
	defer ar.Close()

	for _, name := range ar.Names() {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return fmt.Errorf("%s: refusing to extract outside %s", name, *dstDir)
		}
		dst := filepath.Join(*dstDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := extractFile(ar.Archive, name, dst); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.WithField("file", dst).Debug("Extracted")
	}
	return nil
}

func extractFile(ar *kar.Archive, name, dst string) error {
	r, err := ar.Open(name)
	if err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listFiles() error {
	ar, err := kar.OpenFile(*list)
	if err != nil {
		return err
	}
	defer ar.Close()

	header := ar.Header()
	fmt.Printf("author: %s, version: %d, created: %s\n",
		header.Author, header.Version, time.Unix(header.DateCreated, 0).Format(time.RFC3339))
	for _, name := range ar.Names() {
		entry, err := ar.Stat(name)
		if err != nil {
			return err
		}
		fmt.Printf("%10d %10d %s\n", entry.Size, entry.CompressedSize, name)
	}
	return nil
}
