package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/Fred49680/operaflow-gantt/internal/batch"
	"github.com/Fred49680/operaflow-gantt/internal/calendar"
	"github.com/Fred49680/operaflow-gantt/internal/model"
	"github.com/Fred49680/operaflow-gantt/internal/session"
	"github.com/Fred49680/operaflow-gantt/internal/store"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "show":
		runShow(os.Args[2:])
	case "move":
		runMove(os.Args[2:])
	case "resize":
		runResize(os.Args[2:])
	case "add-task":
		runAddTask(os.Args[2:])
	case "add-dep":
		runAddDep(os.Args[2:])
	case "add-milestone":
		runAddMilestone(os.Args[2:])
	case "version":
		fmt.Printf("gantt %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: gantt <command> [options]

commands:
  show          -file <plan.yaml>                              print the schedule
  move          -file <plan.yaml> -task <id> -start <date>     drag a task to a new start
  resize        -file <plan.yaml> -task <id> -edge start|end -date <date>
  add-task      -file <plan.yaml> -label <s> -start <date> -duration <n> [-mode m] [-calendar id] [-milestone id]
  add-dep       -file <plan.yaml> -succ <id> -pred <id> [-type FS|SS|FF|SF] [-lag n]
  add-milestone -file <plan.yaml> -label <s>
  version

dates use YYYY-MM-DD`)
}

func loadConfig(path string) model.Config {
	cfg := model.DefaultConfig()
	if path == "" {
		return cfg
	}
	content, err := os.ReadFile(path)
	if err != nil {
		fatal("read config: %v", err)
	}
	if err := yamlv3.Unmarshal(content, &cfg); err != nil {
		fatal("parse config: %v", err)
	}
	cfg.ApplyDefaults()
	return cfg
}

func openStore(file string, logger *log.Logger) *store.FileStore {
	if file == "" {
		fatal("-file is required")
	}
	fs, err := store.OpenFile(file, logger)
	if err != nil {
		fatal("open project: %v", err)
	}
	return fs
}

func openSession(ctx context.Context, fs *store.FileStore, cfg model.Config, logger *log.Logger) (*session.Session, *batch.Batcher) {
	debounce := time.Duration(cfg.Batcher.DebounceSec * float64(time.Second))
	batcher := batch.New(fs, debounce, logger)
	eng := calendar.NewWithLimit(cfg.Limits.MaxWalkDays)
	sess, err := session.Open(ctx, fs, fs, fs, fs.ProjectID(), eng, batcher, logger, cfg.Logging.Level)
	if err != nil {
		fatal("open session: %v", err)
	}
	return sess, batcher
}

func parseDateArg(s, name string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		fatal("invalid %s %q: expected YYYY-MM-DD", name, s)
	}
	return t
}

func runShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	file := fs.String("file", "", "project plan file")
	configPath := fs.String("config", "", "config file")
	fs.Parse(args)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	cfg := loadConfig(*configPath)
	st := openStore(*file, logger)
	defer st.Close()

	ctx := context.Background()
	sess, _ := openSession(ctx, st, cfg, logger)

	fmt.Printf("project %s\n\n", st.ProjectID())
	fmt.Printf("%-38s %-24s %-12s %-12s %8s  %s\n", "ID", "LABEL", "START", "END", "DUR", "STATUS")
	for _, t := range sess.Tasks() {
		fmt.Printf("%-38s %-24s %-12s %-12s %8.2f  %s\n",
			t.ID, t.Label, fmtDate(t.Start), fmtDate(t.End), t.DurationUnits, t.Status)
	}

	milestones, err := st.ListMilestones(ctx, st.ProjectID())
	if err != nil {
		fatal("list milestones: %v", err)
	}
	if len(milestones) > 0 {
		fmt.Printf("\n%-38s %-24s %-12s %-12s\n", "MILESTONE", "LABEL", "START", "END")
		for _, m := range milestones {
			fmt.Printf("%-38s %-24s %-12s %-12s\n", m.ID, m.Label, fmtDate(m.Start), fmtDate(m.End))
		}
	}
}

func runMove(args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	file := fs.String("file", "", "project plan file")
	taskID := fs.String("task", "", "task id")
	start := fs.String("start", "", "new start date")
	configPath := fs.String("config", "", "config file")
	fs.Parse(args)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	cfg := loadConfig(*configPath)
	st := openStore(*file, logger)
	defer st.Close()

	ctx := context.Background()
	sess, _ := openSession(ctx, st, cfg, logger)

	p, err := sess.ProposeDrag(*taskID, parseDateArg(*start, "-start"))
	if err != nil {
		fatal("%v", err)
	}
	res, err := sess.Commit(p)
	if err != nil {
		fatal("%v", err)
	}
	if err := sess.Close(ctx); err != nil {
		fatal("flush: %v", err)
	}
	fmt.Printf("moved %s to [%s, %s]; %d task(s), %d milestone(s) updated\n",
		*taskID, fmtDate(p.Start), fmtDate(p.End), len(res.Tasks), len(res.Milestones))
}

func runResize(args []string) {
	fs := flag.NewFlagSet("resize", flag.ExitOnError)
	file := fs.String("file", "", "project plan file")
	taskID := fs.String("task", "", "task id")
	edge := fs.String("edge", "end", "edge to move: start or end")
	date := fs.String("date", "", "new date for the edge")
	configPath := fs.String("config", "", "config file")
	fs.Parse(args)

	if *edge != "start" && *edge != "end" {
		fatal("-edge must be start or end")
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	cfg := loadConfig(*configPath)
	st := openStore(*file, logger)
	defer st.Close()

	ctx := context.Background()
	sess, _ := openSession(ctx, st, cfg, logger)

	p, err := sess.ProposeResize(*taskID, session.Edge(*edge), parseDateArg(*date, "-date"))
	if err != nil {
		fatal("%v", err)
	}
	res, err := sess.Commit(p)
	if err != nil {
		fatal("%v", err)
	}
	if err := sess.Close(ctx); err != nil {
		fatal("flush: %v", err)
	}
	fmt.Printf("resized %s to [%s, %s] (%.2f units); %d task(s), %d milestone(s) updated\n",
		*taskID, fmtDate(p.Start), fmtDate(p.End), p.DurationUnits, len(res.Tasks), len(res.Milestones))
	if p.NewStatus != "" {
		fmt.Printf("status changed to %s\n", p.NewStatus)
	}
}

func runAddTask(args []string) {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	file := fs.String("file", "", "project plan file")
	label := fs.String("label", "", "task label")
	start := fs.String("start", "", "start date")
	duration := fs.Float64("duration", 1, "duration in working units")
	mode := fs.String("mode", string(model.ModeStandard), "working-time mode")
	calendarID := fs.String("calendar", "", "calendar id")
	milestoneID := fs.String("milestone", "", "milestone id")
	configPath := fs.String("config", "", "config file")
	fs.Parse(args)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	cfg := loadConfig(*configPath)
	st := openStore(*file, logger)
	defer st.Close()

	ctx := context.Background()
	startDate := parseDateArg(*start, "-start")

	var cal *model.Calendar
	if *calendarID != "" {
		var err error
		cal, err = st.GetCalendar(ctx, *calendarID)
		if err != nil {
			fatal("%v", err)
		}
	}
	eng := calendar.NewWithLimit(cfg.Limits.MaxWalkDays)
	end := eng.AddWorkingDuration(startDate, *duration, model.WorkMode(*mode), cal)

	t, err := st.CreateTask(ctx, model.Task{
		Label:         *label,
		Start:         startDate,
		End:           end,
		DurationUnits: *duration,
		Mode:          model.WorkMode(*mode),
		CalendarID:    *calendarID,
		MilestoneID:   *milestoneID,
	})
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("created task %s [%s, %s]\n", t.ID, fmtDate(t.Start), fmtDate(t.End))
}

func runAddDep(args []string) {
	fs := flag.NewFlagSet("add-dep", flag.ExitOnError)
	file := fs.String("file", "", "project plan file")
	succ := fs.String("succ", "", "successor task id")
	pred := fs.String("pred", "", "predecessor task id")
	typ := fs.String("type", "FS", "dependency type: FS, SS, FF or SF")
	lag := fs.Int("lag", 0, "lag in days (negative = lead)")
	fs.Parse(args)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	st := openStore(*file, logger)
	defer st.Close()

	err := st.CreateDependency(context.Background(), model.Dependency{
		SuccessorID:   *succ,
		PredecessorID: *pred,
		Type:          model.DependencyType(*typ),
		LagDays:       *lag,
	})
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("linked %s → %s (%s, lag %d)\n", *pred, *succ, *typ, *lag)
}

func runAddMilestone(args []string) {
	fs := flag.NewFlagSet("add-milestone", flag.ExitOnError)
	file := fs.String("file", "", "project plan file")
	label := fs.String("label", "", "milestone label")
	fs.Parse(args)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	st := openStore(*file, logger)
	defer st.Close()

	m, err := st.CreateMilestone(context.Background(), model.Milestone{Label: *label, OnGantt: true})
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("created milestone %s\n", m.ID)
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(model.DateLayout)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
