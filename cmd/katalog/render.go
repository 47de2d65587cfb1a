package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"katalog/app"
	"katalog/domain/product"
)

func renderProducts(w io.Writer, policy product.Policy, products []product.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "Belum ada produk.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if policy.Extended {
		fmt.Fprintln(tw, "ID\tNAMA\tKATEGORI\tHARGA\tSTOK\tRILIS\tAKTIF\tDESKRIPSI")
	} else {
		fmt.Fprintln(tw, "ID\tNAMA\tDESKRIPSI")
	}
	for _, p := range products {
		if policy.Extended {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%t\t%s\n",
				p.ID, p.Name, p.Category, strconv.FormatFloat(p.Price, 'f', -1, 64),
				p.Stock, p.ReleaseDate, p.IsActive, orDash(p.Description))
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, orDash(p.Description))
	}
	_ = tw.Flush()
}

func renderNotification(w io.Writer, st app.State) {
	if !st.NotificationVisible {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", st.Notification.Severity, st.Notification.Message)
}

func renderErrors(w io.Writer, st app.State) {
	fields := make([]string, 0, len(st.Errors))
	for f := range st.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, st.Errors[f])
	}
}

func renderState(w io.Writer, st app.State) {
	fmt.Fprintf(w, "mode: %s", st.Mode)
	if st.EditingID != nil {
		fmt.Fprintf(w, " (id %d)", *st.EditingID)
	}
	fmt.Fprintln(w)
	for _, f := range st.Fields {
		fmt.Fprintf(w, "  %s = %q\n", f, st.Draft.Get(f))
	}
	fmt.Fprintf(w, "  deskripsi: %s\n", st.DescriptionCount)
	renderErrors(w, st)
	if st.PendingDelete != nil {
		fmt.Fprintf(w, "menunggu konfirmasi: %s\n", st.PendingDelete.Prompt)
	}
	renderNotification(w, st)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
