// Package manifest reads file-tree manifests: delimited text files with one
// record per line holding a file's type, content hash, size and path.
//
// # Records
//
// Fields follow RFC 4180 quoting. A field may be wrapped in double quotes, in
// which case the delimiter and doubled quotes ("") inside it are literal. Lines
// starting with '#' are comments. Only the first four fields are used; extra
// fields are ignored and fewer than four is a parse fault.
//
// # Sources
//
// A location is either a local path or an s3://bucket/key URI served by
// core/storage. Locations ending in .gz or .zst are decompressed on the fly,
// and input in a non-UTF-8 encoding is transcoded by its WHATWG label
// (for example "windows-1252" or "shift_jis").
//
//	opener := manifest.Opener{Storage: client, Encoding: "utf-8"}
//	rr, err := opener.Records(ctx, "s3://lists/root_filelist.dat.zst", '\t', nil)
//	defer rr.Close()
//	for {
//	    rec, err := rr.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package manifest
