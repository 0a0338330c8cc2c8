// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func init() {
	// pdfcpu would otherwise create a user configuration directory on first use.
	api.DisableConfigDir()
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

func readContext(data []byte, conf *model.Configuration) (*model.Context, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	return ctx, nil
}

// loadPage builds the Page for 1-based page number nr.
func loadPage(ctx *model.Context, nr int, fill float64) (*Page, error) {
	_, _, inh, err := ctx.PageDict(nr, true)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", nr, err)
	}
	if inh == nil || inh.MediaBox == nil {
		return nil, fmt.Errorf("page %d: missing media box", nr)
	}
	box := inh.MediaBox
	if inh.CropBox != nil {
		box = inh.CropBox
	}

	var content []byte
	r, err := pdfcpu.ExtractPageContent(ctx, nr)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", nr, err)
	}
	if r != nil {
		if content, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("page %d content: %w", nr, err)
		}
	}

	fonts, err := loadFonts(ctx, inh.Resources)
	if err != nil {
		return nil, fmt.Errorf("page %d fonts: %w", nr, err)
	}
	return newPage(content, box.Width(), box.Height(), box.LL.X, box.UR.Y, fonts, fill)
}

func loadFonts(ctx *model.Context, resources pdftypes.Dict) (fontSet, error) {
	fs := fontSet{}
	if resources == nil {
		return fs, nil
	}
	fontDict, err := ctx.DereferenceDict(resources["Font"])
	if err != nil || fontDict == nil {
		return fs, err
	}
	for name, obj := range fontDict {
		fd, err := ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", name, err)
		}
		if fd == nil {
			continue
		}
		f, err := loadFont(ctx, fd)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", name, err)
		}
		fs[name] = f
	}
	return fs, nil
}

func loadFont(ctx *model.Context, fd pdftypes.Dict) (*font, error) {
	f := newSimpleFont()

	if st := fd.NameEntry("Subtype"); st != nil && *st == "Type0" {
		f.twoByte = true
		f.encoding = nil
		if err := loadCIDWidths(ctx, fd, f); err != nil {
			return nil, err
		}
	} else {
		first := 0
		if fc := fd.IntEntry("FirstChar"); fc != nil {
			first = *fc
		}
		widths, err := ctx.DereferenceArray(fd["Widths"])
		if err != nil {
			return nil, err
		}
		for i, o := range widths {
			w, err := ctx.DereferenceNumber(o)
			if err != nil {
				continue
			}
			f.widths[first+i] = w
		}
		if enc, err := ctx.Dereference(fd["Encoding"]); err == nil {
			switch e := enc.(type) {
			case pdftypes.Name:
				f.encoding = encodingByName(string(e))
			case pdftypes.Dict:
				if base := e.NameEntry("BaseEncoding"); base != nil {
					f.encoding = encodingByName(*base)
				}
			}
		}
	}

	tu, ok := fd["ToUnicode"]
	if !ok || tu == nil {
		return f, nil
	}
	sd, _, err := ctx.DereferenceStreamDict(tu)
	if err != nil {
		return nil, err
	}
	if sd != nil {
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("decoding ToUnicode: %w", err)
		}
		f.unicode = parseToUnicode(sd.Content)
	}
	return f, nil
}

// loadCIDWidths reads DW and W from the descendant font of a Type0 font. W
// entries are either "c [w1 w2 ...]" or "cfirst clast w".
func loadCIDWidths(ctx *model.Context, fd pdftypes.Dict, f *font) error {
	f.defaultWidth = 1000
	desc, err := ctx.DereferenceArray(fd["DescendantFonts"])
	if err != nil || len(desc) == 0 {
		return err
	}
	dd, err := ctx.DereferenceDict(desc[0])
	if err != nil || dd == nil {
		return err
	}
	if _, ok := dd["DW"]; ok {
		if dw, err := ctx.DereferenceNumber(dd["DW"]); err == nil {
			f.defaultWidth = dw
		}
	}
	w, err := ctx.DereferenceArray(dd["W"])
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(w); {
		c, err := ctx.DereferenceNumber(w[i])
		if err != nil {
			return fmt.Errorf("W entry %d: %w", i, err)
		}
		next, err := ctx.Dereference(w[i+1])
		if err != nil {
			return err
		}
		if arr, ok := next.(pdftypes.Array); ok {
			for j, o := range arr {
				if v, err := ctx.DereferenceNumber(o); err == nil {
					f.widths[int(c)+j] = v
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			break
		}
		last, err1 := ctx.DereferenceNumber(w[i+1])
		v, err2 := ctx.DereferenceNumber(w[i+2])
		if err1 == nil && err2 == nil {
			for cid := int(c); cid <= int(last) && cid-int(c) <= maxRange; cid++ {
				f.widths[cid] = v
			}
		}
		i += 3
	}
	return nil
}

// setPageContent replaces the content streams of page nr with content.
func setPageContent(ctx *model.Context, nr int, content []byte) error {
	d, _, _, err := ctx.PageDict(nr, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", nr, err)
	}
	sd, err := ctx.NewStreamDictForBuf(content)
	if err != nil {
		return fmt.Errorf("page %d: %w", nr, err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("page %d: encoding content: %w", nr, err)
	}
	ir, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("page %d: %w", nr, err)
	}
	d["Contents"] = *ir
	return nil
}

// writeContext serializes ctx with only the listed 1-based pages in its
// page tree. Every call starts from a fresh write context so the same
// document can be written with different selections.
func writeContext(ctx *model.Context, keep []int) ([]byte, error) {
	ctx.ResetWriteContext()
	if len(keep) != ctx.PageCount {
		for _, nr := range keep {
			ctx.Write.SelectedPages[nr] = true
		}
	}
	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
