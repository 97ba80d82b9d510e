package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/publish"
)

func publishCmd(a *app) *cobra.Command {
	var (
		docs   string
		output string
		bucket string
		prefix string
		prune  bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render a directory of documents to disk or S3",
		Long: `Render every document below the documents directory and store
the pages. Pages go to the publish directory unless an S3 bucket is
configured, in which case they are uploaded with credentials taken from
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  markup publish
  markup publish --out=public --prune
  markup publish --bucket=my-site --prefix=docs/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if docs != "" {
				a.cfg.Documents = docs
			}
			if output != "" {
				a.cfg.Publish.Dir = output
			}
			if bucket != "" {
				a.cfg.Publish.S3.Bucket = bucket
			}
			if prefix != "" {
				a.cfg.Publish.S3.Prefix = prefix
			}
			if prune {
				a.cfg.Publish.Prune = true
			}
			return runPublish(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVarP(&docs, "docs", "d", "", "Documents directory (default from config)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket to upload to")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete pages whose document no longer exists")

	return cmd
}

func runPublish(ctx context.Context, a *app) error {
	store, target, err := openStore(a)
	if err != nil {
		return err
	}
	p := publish.New(store, publish.Options{
		Renderer: a.renderer,
		Logger:   a.logger,
		Prune:    a.cfg.Publish.Prune,
	})

	result, err := p.PublishDir(ctx, a.cfg.DocumentsPath())
	if result != nil {
		a.success("Published %d pages to %s", len(result.Published), target)
		if len(result.Pruned) > 0 {
			a.info("Pruned %d stale pages", len(result.Pruned))
		}
	}
	return err
}

func openStore(a *app) (publish.Store, string, error) {
	s3cfg := a.cfg.Publish.S3
	if s3cfg.Bucket != "" {
		client := publish.NewS3Client(s3cfg)
		return publish.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), "s3://" + s3cfg.Bucket + "/" + s3cfg.Prefix, nil
	}
	dir := a.cfg.OutputPath()
	store, err := publish.NewDiskStore(dir)
	if err != nil {
		return nil, "", err
	}
	return store, dir, nil
}
