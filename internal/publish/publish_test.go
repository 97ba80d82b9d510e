package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/markup/internal/config"
	merrors "github.com/vango-dev/markup/internal/errors"
	_ "github.com/vango-dev/markup/pkg/html"
	"github.com/vango-dev/markup/pkg/markup"
)

// fakeS3 keeps objects in memory and pages List results two at a time.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if aws.ToInt64(in.ContentLength) != int64(len(data)) {
		return nil, errors.New("content length mismatch")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = string(data)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	f.mu.Unlock()
	slices.Sort(keys)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		start = slices.Index(keys, tok)
	}
	end := min(start+2, len(keys))
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPageKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"index.yaml", "index.html"},
		{"guide/intro.json", "guide/intro.html"},
		{filepath.Join("a", "b.yml"), "a/b.html"},
	}
	for _, tt := range tests {
		if got := PageKey(tt.in); got != tt.want {
			t.Errorf("PageKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Put(ctx, "a/b.html", ContentType, strings.NewReader("<p>b</p>")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := store.Put(ctx, "index.html", ContentType, strings.NewReader("x")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.Dir(), "a", "b.html"))
	if err != nil || string(data) != "<p>b</p>" {
		t.Errorf("file = %q, %v", data, err)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"a/b.html", "index.html"}) {
		t.Errorf("List() = %v", keys)
	}

	if err := store.Delete(ctx, "index.html"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := store.Delete(ctx, "index.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}

	for _, key := range []string{"", "../x.html", "/etc/passwd"} {
		if err := store.Put(ctx, key, ContentType, strings.NewReader("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.objects["other/keep.html"] = "x"
	store := NewS3Store(fake, "site", "docs/")

	for _, key := range []string{"a.html", "b.html", "c/d.html"} {
		if err := store.Put(ctx, key, ContentType, strings.NewReader(key)); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	if fake.objects["docs/c/d.html"] != "c/d.html" || fake.types["docs/a.html"] != ContentType {
		t.Errorf("objects = %v", fake.objects)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"a.html", "b.html", "c/d.html"}) {
		t.Errorf("List() = %v", keys)
	}

	if err := store.Delete(ctx, "b.html"); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.objects["docs/b.html"]; ok {
		t.Error("object not deleted")
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(config.S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	opts := client.Options()
	if opts.Region != "eu-west-1" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = %+v", opts)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	_, err := envCredentials()(context.Background())
	var me *merrors.MarkupError
	if !errors.As(err, &me) || me.Code != "E150" {
		t.Errorf("credentials error = %v", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials()(context.Background())
	if err != nil || creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v, %v", creds, err)
	}
}

func TestPublishDir(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"index.yaml":       "{type: p, children: [home]}",
		"guide/intro.json": `{"type": "div", "children": ["intro"]}`,
		"notes.txt":        "ignored",
		".drafts/x.yaml":   "{type: p}",
	})
	fake := newFakeS3()
	fake.objects["stale.html"] = "old"
	fake.objects["logo.png"] = "png"

	p := New(NewS3Store(fake, "site", ""), Options{Logger: quietLogger(), Prune: true})
	result, err := p.PublishDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("PublishDir error: %v", err)
	}
	if !slices.Equal(result.Published, []string{"guide/intro.html", "index.html"}) {
		t.Errorf("Published = %v", result.Published)
	}
	if !slices.Equal(result.Pruned, []string{"stale.html"}) {
		t.Errorf("Pruned = %v", result.Pruned)
	}
	if fake.objects["index.html"] != "<p>home</p>" {
		t.Errorf("index.html = %q", fake.objects["index.html"])
	}
	if _, ok := fake.objects["logo.png"]; !ok {
		t.Error("non-page object was pruned")
	}
}

func TestPublishDir_Failures(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a.yaml": "{type: p, children: [ok]}",
		"b.yaml": "{type: p, children: [{type: div}]}",
		"c.yaml": "{type: nope}",
	})
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), "stale.html", ContentType, strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	p := New(store, Options{Logger: quietLogger(), Prune: true})
	result, err := p.PublishDir(context.Background(), dir)
	if err == nil {
		t.Fatal("PublishDir should fail")
	}
	if !slices.Equal(result.Published, []string{"a.html"}) {
		t.Errorf("Published = %v", result.Published)
	}
	if len(result.Pruned) != 0 {
		t.Errorf("Pruned = %v, want nothing after failures", result.Pruned)
	}
	if !errors.Is(err, markup.ErrInvalidChildren) || !errors.Is(err, markup.ErrUnknownType) {
		t.Errorf("error = %v, want both failures joined", err)
	}
}

func TestPublish(t *testing.T) {
	fake := newFakeS3()
	p := New(NewS3Store(fake, "site", "v1/"), Options{Logger: quietLogger()})

	n := markup.MustNew("p", nil, "x")
	if err := p.Publish(context.Background(), "x.html", n); err != nil {
		t.Fatal(err)
	}
	if fake.objects["v1/x.html"] != "<p>x</p>" {
		t.Errorf("objects = %v", fake.objects)
	}

	bad := markup.MustNew("p", nil, markup.MustNew("div", nil))
	err := p.Publish(context.Background(), "bad.html", bad)
	var me *merrors.MarkupError
	if !errors.As(err, &me) || me.Code != "E150" || !errors.Is(err, markup.ErrInvalidChildren) {
		t.Errorf("Publish(bad) = %v", err)
	}
}

func TestPublishDir_MissingDir(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	_, err := New(store, Options{Logger: quietLogger()}).PublishDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	var me *merrors.MarkupError
	if !errors.As(err, &me) || me.Code != "E150" {
		t.Errorf("error = %v, want E150", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestDiskStore_PutFailureLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	// A non-empty directory at the target path makes the final rename fail.
	if err := os.MkdirAll(filepath.Join(store.Dir(), "page.html", "child"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		key  string
		body io.Reader
	}{
		{"rename fails", "page.html", strings.NewReader("x")},
		{"copy fails", "other.html", failingReader{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Put(ctx, tt.key, ContentType, tt.body); err == nil {
				t.Fatal("Put should fail")
			}
			leftovers, err := filepath.Glob(filepath.Join(store.Dir(), ".publish-*"))
			if err != nil {
				t.Fatal(err)
			}
			if len(leftovers) != 0 {
				t.Errorf("temp files left behind: %v", leftovers)
			}
		})
	}
}
