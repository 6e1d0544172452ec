package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"umzug/internal"
	"umzug/internal/catalog"
	"umzug/internal/config"
	"umzug/internal/connectors"
	gmailconnector "umzug/internal/connectors/gmail"
	imapconnector "umzug/internal/connectors/imap"
	"umzug/internal/invoice"
	"umzug/internal/jotform"
	"umzug/internal/listener"
	"umzug/internal/order"
	"umzug/internal/pdf"
	"umzug/internal/pipeline"
	"umzug/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "catalog:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "catalog bundle json")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		cats, err := catalog.LoadFile(*file)
		must(err)
		must(db.ReplaceCatalogs(cats))
		fmt.Printf("catalog import done services=%d items=%d categories=%d\n",
			len(cats.Services), len(cats.Items), len(cats.Categories))
	case "forms:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 50, "max submissions")
		id := fs.String("id", "", "specific submission id")
		_ = fs.Parse(os.Args[2:])
		client := jotform.NewClient(cfg)
		if strings.TrimSpace(*id) != "" {
			submission, err := client.GetSubmission(context.Background(), *id)
			must(err)
			row, err := submission.ToRow()
			must(err)
			must(db.UpsertSubmission(row))
			fmt.Printf("fetched submission id=%s\n", row.ID)
			return
		}
		submissions, err := client.ListSubmissions(context.Background(), *limit)
		must(err)
		stored := 0
		for _, submission := range submissions {
			row, err := submission.ToRow()
			must(err)
			must(db.UpsertSubmission(row))
			stored++
		}
		fmt.Printf("forms fetch done fetched=%d stored=%d\n", len(submissions), stored)
	case "forms:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "specific submission id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*id) != "" {
			res, err := processor.ProcessSubmissionID(*id)
			must(err)
			fmt.Printf("processed submission=%s order=%d warnings=%d\n", res.SubmissionID, res.OrderID, res.Warnings)
			return
		}
		processed, warnings, err := processor.ProcessPending(*batch)
		must(err)
		fmt.Printf("processed pending submissions=%d warnings=%d\n", processed, warnings)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		orderID := fs.Int("orderId", 0, "internal order id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *orderID == 0 {
			must(fmt.Errorf("--orderId is required"))
		}
		row, err := db.GetOrder(*orderID)
		must(err)
		if row == nil {
			must(fmt.Errorf("order not found: %d", *orderID))
		}
		outputPath := strings.TrimSpace(*out)
		if outputPath == "" {
			outputPath, err = pipeline.ExportStoredOrder(*row, cfg.OutputDir)
			must(err)
		} else {
			var ord internal.Order
			must(json.Unmarshal([]byte(row.OrderJSON), &ord))
			must(pipeline.ExportOrderToXLSX(ord, outputPath))
		}
		must(db.UpdateOrderStatus(row.ID, "exported"))
		fmt.Printf("exported order=%d to %s\n", row.ID, outputPath)
	case "invoice:pdf":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		orderID := fs.Int("orderId", 0, "internal order id")
		number := fs.String("number", "", "invoice number")
		_ = fs.Parse(os.Args[2:])
		if *orderID == 0 || strings.TrimSpace(*number) == "" {
			must(fmt.Errorf("--orderId and --number are required"))
		}
		row, err := db.GetOrder(*orderID)
		must(err)
		if row == nil {
			must(fmt.Errorf("order not found: %d", *orderID))
		}
		var ord internal.Order
		must(json.Unmarshal([]byte(row.OrderJSON), &ord))
		rechnung := invoice.FromOrder(ord, *number)
		builder := pdf.RenderRechnung(rechnung, cfg.InvoiceVatRate)
		path, err := builder.SaveTo(cfg.OutputDir, invoice.FileName("Rechnung", *number))
		must(err)
		fmt.Printf("invoice written to %s\n", path)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.FormListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.FormListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d known=%d\n", *provider, result.Fetched, result.Stored, result.Known)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "submission answers json file")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input --output are required"))
		}

		blob, err := os.ReadFile(*input)
		must(err)
		var answers []internal.Answer
		must(json.Unmarshal(blob, &answers))

		catalogs, err := db.LoadCatalogs()
		must(err)
		result, err := order.Generate(answers, catalogs)
		must(err)
		for _, w := range result.Warnings {
			fmt.Printf("warning [%s] %s %s\n", w.Kind, w.Answer, w.Message)
		}
		must(os.MkdirAll(filepath.Dir(*output), 0o755))
		must(pipeline.ExportOrderToXLSX(result.Order, *output))
		fmt.Printf("run done items=%d services=%d volume=%s output=%s\n",
			len(result.Order.Items), len(result.Order.Services), result.Order.Volume, *output)
	default:
		usage()
		os.Exit(1)
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: umzug <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:import --file=./catalog.json")
	fmt.Println("  forms:fetch [--limit=50] [--id=...]")
	fmt.Println("  forms:process [--id=...] [--batch=20]")
	fmt.Println("  export:xlsx --orderId=1 [--out=./out/auftrag.xlsx]")
	fmt.Println("  invoice:pdf --orderId=1 --number=2301")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:listen")
	fmt.Println("  run --input=./answers.json --output=./out/auftrag.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
