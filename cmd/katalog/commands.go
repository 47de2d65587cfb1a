package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"katalog/domain/product"
	"katalog/errors"
)

// fieldFlags 与产品字段对应的命令行参数
var fieldFlags = []struct {
	flag  string
	field product.Field
	usage string
}{
	{"name", product.FieldName, "nama produk"},
	{"description", product.FieldDescription, "deskripsi"},
	{"price", product.FieldPrice, "harga (varian extended)"},
	{"category", product.FieldCategory, "kategori (varian extended)"},
	{"release-date", product.FieldReleaseDate, "tanggal rilis YYYY-MM-DD (varian extended)"},
	{"stock", product.FieldStock, "stok (varian extended)"},
	{"active", product.FieldIsActive, "aktif true|false (varian extended)"},
}

func productFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(fieldFlags))
	for _, f := range fieldFlags {
		flags = append(flags, &cli.StringFlag{Name: f.flag, Usage: f.usage})
	}
	return flags
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "tampilkan daftar produk",
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			renderProducts(rt.out, rt.engine.Policy(), rt.engine.Products())
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "tambah produk",
		Flags: productFlags(),
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			if err := applyFieldFlags(c, rt); err != nil {
				return err
			}
			return submit(c, rt)
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "ubah produk; hanya field yang diberikan yang berubah",
		Flags: append([]cli.Flag{&cli.Int64Flag{Name: "id", Required: true}}, productFlags()...),
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			id := c.Int64("id")
			if !rt.engine.OnEditRequest(id) {
				return cli.Exit(fmt.Sprintf("produk %d tidak ditemukan", id), 1)
			}
			if err := applyFieldFlags(c, rt); err != nil {
				return err
			}
			return submit(c, rt)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "hapus produk",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "lewati konfirmasi"},
		},
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			id := c.Int64("id")
			req, ok := rt.engine.OnDeleteRequest(id)
			if !ok {
				return cli.Exit(fmt.Sprintf("produk %d tidak ditemukan", id), 1)
			}

			confirmed := c.Bool("yes")
			if !confirmed {
				confirmed = askConfirm(rt, req.Prompt, bufio.NewScanner(rt.in))
			}
			deleted, err := rt.engine.OnConfirmDelete(c.Context, id, confirmed)
			if err != nil {
				renderNotification(rt.out, rt.engine.State())
				return cli.Exit(err.Error(), 1)
			}
			if deleted {
				renderNotification(rt.out, rt.engine.State())
			}
			return nil
		},
	}
}

func applyFieldFlags(c *cli.Context, rt *runtime) error {
	active := make(map[product.Field]bool)
	for _, f := range rt.engine.Policy().ActiveFields() {
		active[f] = true
	}
	for _, f := range fieldFlags {
		if !c.IsSet(f.flag) {
			continue
		}
		if !active[f.field] {
			return cli.Exit(fmt.Sprintf("--%s hanya tersedia pada varian extended", f.flag), 2)
		}
		if err := rt.engine.OnFieldChange(string(f.field), c.String(f.flag)); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	return nil
}

func submit(c *cli.Context, rt *runtime) error {
	err := rt.engine.OnSubmit(c.Context)
	st := rt.engine.State()
	renderNotification(rt.out, st)
	if err == nil {
		return nil
	}
	if errors.IsValidation(err) {
		renderErrors(rt.out, st)
		return cli.Exit("", 1)
	}
	return cli.Exit(err.Error(), 1)
}

func askConfirm(rt *runtime, prompt string, scanner *bufio.Scanner) bool {
	fmt.Fprintf(rt.out, "%s [y/N] ", prompt)
	if !scanner.Scan() {
		fmt.Fprintln(rt.out)
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "ya" || answer == "yes"
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil
}
