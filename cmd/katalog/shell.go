package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"katalog/errors"
)

const shellHelp = `perintah:
  list                     daftar produk
  set <field> <nilai...>   ubah field draft (name, description, price, category, releaseDate, stock, isActive)
  submit                   simpan draft
  edit <id>                mulai mengubah produk
  cancel                   batalkan pengubahan
  delete <id>              hapus produk (dengan konfirmasi)
  state                    tampilkan status form
  dismiss                  tutup notifikasi
  help                     bantuan
  quit                     keluar`

func shellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "mode interaktif",
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			return runShell(c, rt)
		},
	}
}

func runShell(c *cli.Context, rt *runtime) error {
	scanner := bufio.NewScanner(rt.in)
	fmt.Fprintln(rt.out, "katalog shell; ketik 'help' untuk bantuan")

	for {
		fmt.Fprint(rt.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(rt.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(cmd) {
		case "quit", "exit":
			return nil

		case "help":
			fmt.Fprintln(rt.out, shellHelp)

		case "list":
			renderProducts(rt.out, rt.engine.Policy(), rt.engine.Products())

		case "set":
			field, value, _ := strings.Cut(rest, " ")
			if err := rt.engine.OnFieldChange(field, value); err != nil {
				fmt.Fprintln(rt.out, err)
			}

		case "submit":
			err := rt.engine.OnSubmit(c.Context)
			st := rt.engine.State()
			renderNotification(rt.out, st)
			if errors.IsValidation(err) {
				renderErrors(rt.out, st)
			} else if err != nil {
				fmt.Fprintln(rt.out, err)
			}

		case "edit":
			id, ok := parseID(rest)
			if !ok || !rt.engine.OnEditRequest(id) {
				fmt.Fprintf(rt.out, "produk %q tidak ditemukan\n", rest)
				continue
			}
			renderState(rt.out, rt.engine.State())

		case "cancel":
			rt.engine.OnCancel()

		case "delete":
			id, ok := parseID(rest)
			if !ok {
				fmt.Fprintf(rt.out, "produk %q tidak ditemukan\n", rest)
				continue
			}
			req, ok := rt.engine.OnDeleteRequest(id)
			if !ok {
				fmt.Fprintf(rt.out, "produk %d tidak ditemukan\n", id)
				continue
			}
			confirmed := askConfirm(rt, req.Prompt, scanner)
			deleted, err := rt.engine.OnConfirmDelete(c.Context, id, confirmed)
			if err != nil {
				fmt.Fprintln(rt.out, err)
			}
			if deleted || err != nil {
				renderNotification(rt.out, rt.engine.State())
			}

		case "state":
			renderState(rt.out, rt.engine.State())

		case "dismiss":
			rt.engine.OnDismissNotification()

		default:
			fmt.Fprintf(rt.out, "perintah tidak dikenal: %s\n", cmd)
		}
	}
}
