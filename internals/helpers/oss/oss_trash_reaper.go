package helper

import (
	"context"
	"log"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/robfig/cron/v3"

	"quizku_backend/internals/configs"
)

type TrashReaperConfig struct {
	Prefix        string
	RetentionDays int
	CronSchedule  string
	DryRun        bool
}

func TrashReaperConfigFromEnv() TrashReaperConfig {
	return TrashReaperConfig{
		Prefix:        configs.GetEnv("REAPER_PREFIX", "spam/"),
		RetentionDays: configs.GetEnvInt("RETENTION_DAYS", 30),
		CronSchedule:  configs.GetEnv("CRON_SCHEDULE", "15 2 * * *"),
		DryRun:        configs.GetEnvBool("DRY_RUN", false),
	}
}

// ── ENTRYPOINT: panggil dari main.go (svc nil → reaper tidak dijalankan)
func StartTrashReaperCron(svc *OSSService) *cron.Cron {
	if svc == nil {
		log.Printf("[TRASH-REAPER] OSS tidak dikonfigurasi, skip")
		return nil
	}
	cfg := TrashReaperConfigFromEnv()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		if err := runOSSReaper(ctx, svc.Bucket, cfg.Prefix, retention, cfg.DryRun); err != nil {
			log.Printf("[TRASH-REAPER] OSS error: %v", err)
		}
	})
	if err != nil {
		log.Printf("[TRASH-REAPER] add cron gagal: %v", err)
		return nil
	}
	log.Printf("[TRASH-REAPER] started schedule=%q prefix=%q retention=%dd dryRun=%v",
		cfg.CronSchedule, cfg.Prefix, cfg.RetentionDays, cfg.DryRun)
	c.Start()
	return c
}

func runOSSReaper(ctx context.Context, bucket *oss.Bucket, prefix string, retention time.Duration, dryRun bool) error {
	threshold := time.Now().Add(-retention)
	log.Printf("[OSS-REAPER] scanning prefix=%q threshold=%s dry=%v", prefix, threshold.Format(time.RFC3339), dryRun)

	marker := oss.Marker("")
	var keys []string
	total := 0
	for {
		lor, err := bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return err
		}
		for _, obj := range lor.Objects {
			total++
			if obj.Key != "" && obj.LastModified.Before(threshold) {
				keys = append(keys, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	if len(keys) == 0 {
		log.Printf("[OSS-REAPER] nothing to delete; scanned=%d under %q", total, prefix)
		return nil
	}
	if dryRun {
		log.Printf("[OSS-REAPER] DRY-RUN would delete %d/%d objects under %q", len(keys), total, prefix)
		return nil
	}

	deleted := 0
	for i := 0; i < len(keys); i += 1000 {
		end := i + 1000
		if end > len(keys) {
			end = len(keys)
		}
		if _, err := bucket.DeleteObjects(keys[i:end], oss.DeleteObjectsQuiet(true), oss.WithContext(ctx)); err != nil {
			log.Printf("[OSS-REAPER] delete batch %d-%d gagal: %v", i, end, err)
			continue
		}
		deleted += end - i
	}
	log.Printf("[OSS-REAPER] deleted %d objects (scanned=%d) under %q", deleted, total, prefix)
	return nil
}
