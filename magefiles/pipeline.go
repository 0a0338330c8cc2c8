// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline runs the paperclean stages over the project directories with the
// settings from paperclean.yaml (or the defaults).
type Pipeline mg.Namespace

// Clean removes headers, footers and padding pages from papers/ into
// output_cleaned/.
func (Pipeline) Clean() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "clean")
}

// Split writes one PDF per question from output_cleaned/ into
// output_questions/.
func (Pipeline) Split() error {
	mg.Deps(Pipeline.Clean)
	return sh.RunV(binPath, "split")
}

// Convert turns the question PDFs into DOCX files under output_docx/.
func (Pipeline) Convert() error {
	mg.Deps(Pipeline.Split)
	return sh.RunV(binPath, "convert", "--direction", "pdf-to-docx")
}

// All runs clean, split and convert in order.
func (Pipeline) All() {
	mg.SerialDeps(Pipeline.Clean, Pipeline.Split, Pipeline.Convert)
}

// Reset removes the generated output directories, leaving papers/ alone.
func (Pipeline) Reset() error {
	for _, dir := range projectDirs[1:] {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
