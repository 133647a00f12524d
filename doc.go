// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package tablejson implements a scanner, reader, and writer for the
// type-tagged JSON encoding of table entities kept in a document store.
//
// An entity document is a JSON object whose members are typed properties.
// Each property value is wrapped in an object giving its EDM type code and
// its value:
//
//	{"name": {"$t": 0, "$v": "Alice"}, "age": {"$t": 6, "$v": 37}}
//
// The encoding of each value depends on its type:
//
//	Type          | Code | Encoding
//	------------- | ---- | --------------------------------------------
//	Edm.String    |    0 | quoted string
//	Edm.Binary    |    1 | quoted string, one character per byte
//	Edm.Boolean   |    2 | true or false
//	Edm.DateTime  |    3 | integer milliseconds since the Unix epoch
//	Edm.Double    |    4 | number, or NaN, Infinity, -Infinity
//	Edm.Guid      |    5 | quoted string, canonical hyphenated form
//	Edm.Int32     |    6 | integer
//	Edm.Int64     |    7 | quoted 20-digit zero-padded decimal string
//
// A null value of any type is written as null.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for a relaxed JSON dialect.
// Construct a scanner from the input text and call its Next method to iterate
// over the tokens. Next advances to the next input token and returns nil, or
// reports an error:
//
//	s := tablejson.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates a lexical error in the input.
//
// # Reading
//
// A Reader decodes the properties of one document:
//
//	r := tablejson.NewReader(doc, nil)
//	defer r.Close()
//	if err := r.Start(); err != nil {
//	   return err
//	}
//	for {
//	   ok, err := r.MoveNext()
//	   if err != nil {
//	      return err
//	   } else if !ok {
//	      break
//	   }
//	   name, _ := r.CurrentName()
//	   value, _ := r.CurrentValue()
//	   log.Printf("%s = %v", name, value)
//	}
//	return r.End()
//
// Fields whose names are reserved for document metadata, such as "id" and
// "_etag", are skipped. ReadProperties performs the whole cycle at once.
//
// # Writing
//
// A Writer is the dual of a Reader. WriteProperties writes a complete
// document.
//
// # Errors
//
// Malformed lexical input is reported as a *ScanError, input that does not
// match the entity grammar as a *FormatError, and a method called in the
// wrong state as a *UsageError. Use errors.Is with ErrScan, ErrFormat,
// ErrUsage, and ErrDisposed to classify them.
package tablejson
