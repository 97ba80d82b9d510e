// Package publish renders a directory of documents and writes the pages
// to a Store.
//
// Two stores are provided: DiskStore writes under a local directory and
// S3Store uploads to a bucket. Both take keys with forward slashes, such
// as "guide/intro.html".
//
//	store, _ := publish.NewDiskStore("dist")
//	p := publish.New(store, publish.Options{})
//	result, err := p.PublishDir(ctx, "pages")
package publish
