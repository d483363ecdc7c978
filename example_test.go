package liquids3_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"

	liquids3 "github.com/BinaryBirds/liquid-s3-driver"
	lserrors "github.com/BinaryBirds/liquid-s3-driver/errors"
)

// ExampleNew demonstrates how to construct a driver and publish a document.
func ExampleNew() {
	ctx := context.Background()

	// Credentials come from the default AWS chain (environment, shared
	// config, instance role)
	storage, err := liquids3.New(
		liquids3.WithBucket("my-assets"),
		liquids3.WithRegion("us-west-1"),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Objects are uploaded with public-read access, so the returned URL
	// serves the document to anonymous requests
	url, err := storage.Upload(ctx, "docs/readme.txt", []byte("hello"),
		liquids3.WithContentType("text/plain"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("published at %s\n", url)
}

// ExampleStorage_PublicURL demonstrates how URLs are resolved without any
// remote calls.
func ExampleStorage_PublicURL() {
	// An explicit AWS config skips the default credential chain; URL
	// resolution itself never contacts the service
	storage, err := liquids3.New(
		liquids3.WithBucket("my-assets"),
		liquids3.WithRegion("eu-west-2"),
		liquids3.WithAWSConfig(&aws.Config{}),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(storage.PublicURL("images/logo.png"))
	// Output: https://my-assets.s3.eu-west-2.amazonaws.com/images/logo.png
}

// ExampleStorage_List demonstrates how to list the immediate children of a
// pseudo directory.
func ExampleStorage_List() {
	ctx := context.Background()

	storage, err := liquids3.New(liquids3.WithBucket("my-assets"))
	if err != nil {
		log.Fatal(err)
	}

	// With objects at docs/a.txt, docs/sub/b.txt and docs/sub/c.txt the
	// children are "a.txt", "sub", "sub": one entry per stored object,
	// not deduplicated
	children, err := storage.List(ctx, "docs/")
	if err != nil {
		log.Fatal(err)
	}

	for _, child := range children {
		fmt.Println(child)
	}
}

// ExampleStorage_Move demonstrates how to rename an object and handle the
// failure modes a move can surface.
func ExampleStorage_Move() {
	ctx := context.Background()

	storage, err := liquids3.New(liquids3.WithBucket("my-assets"))
	if err != nil {
		log.Fatal(err)
	}

	url, err := storage.Move(ctx, "drafts/report.pdf", "published/report.pdf")
	switch {
	case lserrors.IsKeyNotExists(err):
		log.Fatal("nothing to publish")
	case lserrors.IsPartialFailure(err):
		// The copy landed; only the source cleanup failed
		log.Fatal("published, but the draft is still in place")
	case err != nil:
		log.Fatal(err)
	}

	fmt.Printf("published at %s\n", url)
}
