package organizer

import (
	"context"
	"testing"
	"time"

	"github.com/fenilsonani/file-organizer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAdd(t *testing.T) {
	ix := NewIndex()
	a := FileRecord{Path: "/r/a"}
	b := FileRecord{Path: "/r/b"}
	c := FileRecord{Path: "/r/c"}
	d := FileRecord{Path: "/r/d"}

	orig, dup := ix.Add("111", a)
	assert.False(t, dup)
	assert.Equal(t, a, orig)

	_, dup = ix.Add("222", b)
	assert.False(t, dup)

	orig, dup = ix.Add("111", c)
	assert.True(t, dup)
	assert.Equal(t, a, orig, "first file seen stays the original")

	orig, dup = ix.Add("111", d)
	assert.True(t, dup)
	assert.Equal(t, a, orig)

	assert.Equal(t, 2, ix.Len())

	sets := ix.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, "111", sets[0].Digest)
	assert.Equal(t, a, sets[0].Original)
	assert.Equal(t, []FileRecord{c, d}, sets[0].Duplicates)
}

func TestIndexSetsKeepFirstSeenOrder(t *testing.T) {
	ix := NewIndex()
	ix.Add("zz", FileRecord{Path: "/1"})
	ix.Add("aa", FileRecord{Path: "/2"})
	ix.Add("aa", FileRecord{Path: "/3"})
	ix.Add("zz", FileRecord{Path: "/4"})

	sets := ix.Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, "zz", sets[0].Digest)
	assert.Equal(t, "aa", sets[1].Digest)
}

func TestScanDuplicatesWalksSubdirectories(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a.txt", []byte("same"))
	f.CreateFile("sub/b.txt", []byte("same"))
	f.CreateFile("sub/deeper/c.txt", []byte("same"))
	f.CreateFile("other.txt", []byte("different"))
	f.CreateFile("empty1", nil)
	f.CreateFile("sub/empty2", nil)

	o := newTestOrganizer(t, nil)
	scan, err := o.ScanDuplicates(context.Background(), f.RootDir)
	require.NoError(t, err)

	assert.Equal(t, 6, scan.Hashed)
	assert.Equal(t, 3, scan.DuplicateCount)
	assert.Empty(t, scan.Errors)
	require.Len(t, scan.Sets, 2)

	// lexical walk order: a.txt, empty1, other.txt, sub/b.txt, sub/deeper/c.txt, sub/empty2
	assert.Equal(t, "a.txt", scan.Sets[0].Original.Name)
	assert.Equal(t, "b.txt", scan.Sets[0].Duplicates[0].Name)
	assert.Equal(t, "c.txt", scan.Sets[0].Duplicates[1].Name)
	assert.Equal(t, "empty1", scan.Sets[1].Original.Name)
	assert.Equal(t, "empty2", scan.Sets[1].Duplicates[0].Name)

	// scanning moves nothing
	assert.Len(t, f.Files(), 6)
}

func TestScanDuplicatesSkipsDuplicatesFolder(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("duplicates/old.txt", []byte("content"))
	f.CreateFile("x.txt", []byte("content"))
	f.CreateFile("nested/duplicates/y.txt", []byte("content"))

	o := newTestOrganizer(t, nil)
	scan, err := o.ScanDuplicates(context.Background(), f.RootDir)
	require.NoError(t, err)

	// only root/duplicates is skipped; nested/duplicates is an ordinary folder
	assert.Equal(t, 2, scan.Hashed)
	assert.Equal(t, 1, scan.DuplicateCount)
	require.Len(t, scan.Sets, 1)
	assert.Equal(t, "y.txt", scan.Sets[0].Original.Name)
	assert.Equal(t, "x.txt", scan.Sets[0].Duplicates[0].Name)
}

func TestScanDuplicatesIgnoresSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateFile("real.txt", []byte("data"))
	f.CreateSymlink(target, "link.txt")

	o := newTestOrganizer(t, nil)
	scan, err := o.ScanDuplicates(context.Background(), f.RootDir)
	require.NoError(t, err)

	assert.Equal(t, 1, scan.Hashed)
	assert.Zero(t, scan.DuplicateCount)
}

func TestScanDuplicatesRecordsUnreadableFiles(t *testing.T) {
	testutil.SkipIfRoot(t)

	f := testutil.NewFixture(t)
	f.CreateFile("a.txt", []byte("same"))
	f.CreateFile("b.txt", []byte("same"))
	f.CreateNoPermissionFile("c.txt", []byte("same"))

	o := newTestOrganizer(t, nil)
	scan, err := o.ScanDuplicates(context.Background(), f.RootDir)
	require.NoError(t, err)

	assert.Equal(t, 2, scan.Hashed)
	assert.Equal(t, 1, scan.DuplicateCount)
	require.Len(t, scan.Errors, 1)
	assert.Equal(t, OpHash, scan.Errors[0].Op)
	assert.Equal(t, ErrorPermissionDenied, scan.Errors[0].Reason)
	assert.Equal(t, f.Path("c.txt"), scan.Errors[0].Path)
}

func TestScanDuplicatesCancelled(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a.txt", []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrganizer(t, nil)
	scan, err := o.scanDuplicates(ctx, f.RootDir, time.Now())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, scan.Hashed)
}

func TestScanDuplicatesInvalidRoot(t *testing.T) {
	f := testutil.NewFixture(t)

	o := newTestOrganizer(t, nil)
	_, err := o.ScanDuplicates(context.Background(), f.Path("missing"))
	assert.Error(t, err)
}

func TestScanDuplicatesSpansHashChunks(t *testing.T) {
	f := testutil.NewFixture(t)
	orig := f.CreateRandomFile("big.bin", 3*4096+17)
	f.CreateFile("copy/big.bin", f.ReadFile("big.bin"))

	// same size, one byte off in the last chunk
	altered := f.ReadFile("big.bin")
	altered[len(altered)-1] ^= 0xff
	f.CreateFile("altered.bin", altered)

	o := newTestOrganizer(t, nil)
	scan, err := o.ScanDuplicates(context.Background(), f.RootDir)
	require.NoError(t, err)

	assert.Equal(t, 3, scan.Hashed)
	require.Len(t, scan.Sets, 1)
	assert.Equal(t, orig, scan.Sets[0].Original.Path)
	assert.Equal(t, f.Path("copy/big.bin"), scan.Sets[0].Duplicates[0].Path)

	n, err := testutil.CountFiles(f.RootDir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
