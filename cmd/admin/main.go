package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/logging"
	"portfolio/internal/seed"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

func main() {
	var (
		runSeed    = flag.Bool("seed", false, "迁移数据库并写入缺失的默认内容")
		messages   = flag.Bool("messages", false, "列出联系表单留言")
		unreadOnly = flag.Bool("unread", false, "与 --messages 一起使用，仅列出未读留言")
		checkMedia = flag.Bool("check-media", false, "检查资料与项目引用的媒体对象是否存在于 MinIO")
		timeout    = flag.Duration("timeout", time.Minute, "命令整体超时时间")
	)
	flag.Parse()

	if !*runSeed && !*messages && !*checkMedia {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, closeLog := logging.New(cfg.Log)
	defer closeLog()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *runSeed {
		var locker seed.Locker
		if cfg.Redis.Enabled() {
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
			defer client.Close()
			locker = seed.NewRedisLocker(client)
		}
		report, err := seed.New(db, locker, logger).Run(ctx)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Printf("seeded:  %s\n", joinOrNone(report.Seeded))
		fmt.Printf("marked:  %s\n", joinOrNone(report.Marked))
		fmt.Printf("skipped: %s\n", joinOrNone(report.Skipped))
	}

	s := store.New(db)

	if *messages {
		if err := printMessages(ctx, s, *unreadOnly); err != nil {
			log.Fatalf("list messages: %v", err)
		}
	}

	if *checkMedia {
		if !cfg.MinIO.Enabled() {
			log.Fatal("MINIO_ENDPOINT is not configured")
		}
		client, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("init minio: %v", err)
		}
		missing, err := checkMediaKeys(ctx, s, client)
		if err != nil {
			log.Fatalf("check media: %v", err)
		}
		if missing > 0 {
			os.Exit(1)
		}
	}
}

func printMessages(ctx context.Context, s *store.Store, unreadOnly bool) error {
	msgs, err := s.ListContactMessages(ctx, store.MessageFilter{UnreadOnly: unreadOnly})
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("没有留言")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECEIVED\tFROM\tSUBJECT\tREAD\tREPLIED")
	for _, m := range msgs {
		fmt.Fprintf(w, "%d\t%s\t%s <%s>\t%s\t%t\t%t\n",
			m.ID, m.CreatedAt.Format(time.RFC3339), m.Name, m.Email, m.Subject, m.IsRead, m.IsReplied)
	}
	return w.Flush()
}

type objectChecker interface {
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}

// checkMediaKeys 打印每个被引用的对象键的检查结果，返回缺失数量。
func checkMediaKeys(ctx context.Context, s *store.Store, checker objectChecker) (int, error) {
	keys, err := mediaKeys(ctx, s)
	if err != nil {
		return 0, err
	}

	missing := 0
	for _, ref := range keys {
		ok, err := checker.ObjectExists(ctx, ref.key)
		switch {
		case err != nil:
			return missing, fmt.Errorf("stat %s: %w", ref.key, err)
		case ok:
			fmt.Printf("ok       %-24s %s\n", ref.owner, ref.key)
		default:
			missing++
			fmt.Printf("missing  %-24s %s\n", ref.owner, ref.key)
		}
	}
	fmt.Printf("%d referenced, %d missing\n", len(keys), missing)
	return missing, nil
}

type mediaRef struct {
	owner string
	key   string
}

// mediaKeys 收集存储中的相对媒体路径，绝对 URL 不在检查范围内。
func mediaKeys(ctx context.Context, s *store.Store) ([]mediaRef, error) {
	profile, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.ListProjects(ctx, store.ProjectFilter{})
	if err != nil {
		return nil, err
	}

	var refs []mediaRef
	add := func(owner, value string) {
		value = strings.TrimSpace(value)
		if value == "" || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
			return
		}
		refs = append(refs, mediaRef{owner: owner, key: strings.TrimLeft(value, "/")})
	}

	add("profile.profile_image", profile.ProfileImage)
	add("profile.resume_file", profile.ResumeFile)
	for _, p := range projects {
		add(fmt.Sprintf("project[%d].image", p.ID), p.Image)
	}
	return refs, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
