package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fimwatch/fimdash/internal/dashboard"
	"github.com/fimwatch/fimdash/internal/logs"
	"github.com/fimwatch/fimdash/internal/models"
)

// repl runs the interactive shell loop driving the dashboard.
func repl(ctx context.Context, d *dashboard.Dashboard) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("fimdash> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "list":
			printRecords(os.Stdout, d.Records())
		case "chart":
			printHistogram(os.Stdout, d.Histogram())
		case "refresh":
			if err := d.Refresh(ctx); err != nil {
				reportErr(d, err)
			} else {
				printRecords(os.Stdout, d.Records())
			}
		case "select":
			if len(args) < 2 {
				fmt.Println("Usage: select <file-id>")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("Invalid file id:", args[1])
				continue
			}
			if err := d.Select(ctx, id); err != nil {
				reportErr(d, err)
				continue
			}
			printDetail(os.Stdout, d)
		case "clear":
			d.ClearSelection()
		case "detail":
			printDetail(os.Stdout, d)
		case "backups":
			sel, ok := d.Selected()
			if !ok {
				fmt.Println("No file selected")
				continue
			}
			fmt.Printf("Backup history for %s:\n", sel.File)
			printBackups(os.Stdout, d.History())
		case "verify":
			sel, ok := d.Selected()
			if !ok {
				fmt.Println("No file selected")
				continue
			}
			if err := d.Verify(ctx, sel.FileID); err != nil {
				reportErr(d, err)
				continue
			}
			fmt.Println("Status updated")
			printDetail(os.Stdout, d)
		case "interval":
			if len(args) < 2 {
				fmt.Printf("Usage: interval <%s>\n", intervalChoices())
				continue
			}
			sel, ok := d.Selected()
			if !ok {
				fmt.Println("No file selected")
				continue
			}
			if err := d.ChangeInterval(ctx, sel.FileID, models.CheckInterval(args[1])); err != nil {
				reportErr(d, err)
				continue
			}
			fmt.Println("Check interval updated")
			printDetail(os.Stdout, d)
		case "delete":
			sel, ok := d.Selected()
			if !ok {
				fmt.Println("No file selected")
				continue
			}
			if err := d.RequestDelete(); err != nil {
				reportErr(d, err)
				continue
			}
			if !confirm(scanner, fmt.Sprintf("Are you sure you want to delete %s?", sel.File)) {
				d.CancelDelete()
				continue
			}
			if err := d.ConfirmDelete(ctx); err != nil {
				reportErr(d, err)
				continue
			}
			fmt.Println("Monitoring stopped")
		case "rollback":
			if len(args) < 2 {
				fmt.Println("Usage: rollback <backup-id>  (see 'backups')")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("Invalid backup id:", args[1])
				continue
			}
			if err := d.OpenRollback(); err != nil {
				reportErr(d, err)
				continue
			}
			if err := d.ChooseBackup(id); err != nil {
				d.CancelRollback()
				reportErr(d, err)
				continue
			}
			if !confirm(scanner, "This will roll back the server state and download the backup file. Continue?") {
				d.CancelRollback()
				continue
			}
			if err := d.ConfirmRollback(ctx); err != nil {
				reportErr(d, err)
				continue
			}
			fmt.Println("Rollback complete, backup file saved")
		case "logout":
			d.Logout()
			fmt.Println("Logged out")
		case "exit", "quit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}

		if !d.LoggedIn() {
			fmt.Println("Session ended. Run 'fimdash login' to log in again.")
			return
		}
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  list                 show monitored files")
	fmt.Println("  chart                show the status histogram")
	fmt.Println("  refresh              re-fetch the log set")
	fmt.Println("  select <file-id>     focus one file")
	fmt.Println("  clear                drop the focus")
	fmt.Println("  detail               show the focused file")
	fmt.Println("  backups              show the focused file's backup history")
	fmt.Println("  verify               accept the current content as verified")
	fmt.Printf("  interval <%s>  change the polling cadence\n", intervalChoices())
	fmt.Println("  delete               stop monitoring the focused file")
	fmt.Println("  rollback <backup-id> restore a backup and download it")
	fmt.Println("  logout, exit")
}

// reportErr prints the error, giving the partial-rollback outcome its
// own warning since the server state has already changed.
func reportErr(d *dashboard.Dashboard, err error) {
	var partial *dashboard.PartialRollbackError
	switch {
	case errors.As(err, &partial):
		fmt.Println("WARNING:", partial.Error())
	case errors.Is(err, dashboard.ErrNotLoggedIn):
		fmt.Println("Not logged in. Run 'fimdash login' first.")
	default:
		fmt.Println("error:", err)
	}
}

func confirm(scanner *bufio.Scanner, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func intervalChoices() string {
	var parts []string
	for _, iv := range models.Intervals() {
		parts = append(parts, string(iv))
	}
	return strings.Join(parts, "|")
}

func printRecords(w io.Writer, records []models.FileLogRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No monitored files")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE ID\tFILE\tSTATUS\tTIME\tINTERVAL")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			rec.FileID, rec.File, rec.Status.Label(), rec.Time, rec.CheckInterval)
	}
	_ = tw.Flush()
}

func printDetail(w io.Writer, d *dashboard.Dashboard) {
	sel, ok := d.Selected()
	if !ok {
		fmt.Fprintln(w, "No file selected")
		return
	}
	fmt.Fprintf(w, "File:           %s\n", sel.File)
	fmt.Fprintf(w, "Status:         %s\n", sel.Status.Label())
	fmt.Fprintf(w, "Last modified:  %s\n", sel.Time)
	if sel.Status != models.StatusUnchanged {
		fmt.Fprintf(w, "Old hash:       %s\n", sel.OldHash)
		fmt.Fprintf(w, "New hash:       %s\n", sel.NewHash)
	}
	fmt.Fprintf(w, "Check interval: %s\n", sel.CheckInterval)
	fmt.Fprintf(w, "Backups:        %d\n", len(d.History()))
}

func printBackups(w io.Writer, history []models.BackupRecord) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No backup history available")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BACKUP ID\tCREATED AT\tHASH")
	for _, b := range history {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.CreatedAt, b.BackupHash)
	}
	_ = tw.Flush()
}

func printHistogram(w io.Writer, counts []logs.StatusCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w, "Status histogram:")
	for _, c := range counts {
		fmt.Fprintf(w, "  %-14s %s %d\n", c.Status.Label(), strings.Repeat("#", c.Count), c.Count)
	}
}
