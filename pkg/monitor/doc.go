// Package monitor runs the scheduled pool health report: per-vendor
// live/dead/open counts logged on a cron schedule and optionally pushed to
// a webhook. The default schedule reports twice daily.
package monitor
