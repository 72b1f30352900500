// Package reader loads the code-list dataset from CSV, Parquet or SQLite.
//
// Every source returns the whole dataset as a Dataset of query.Record values
// with the columns in file order. Sources never write.
//
// # Basic Usage
//
//	src, err := reader.OpenSource("codelists.parquet", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
//	ds, err := src.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(ds.Records), ds.Columns)
//
// # SQLite push-down
//
// A *SQLiteSource also implements Filterer. BuildWhere translates a predicate
// tree into a WHERE clause whose user text is passed only as bound parameters:
//
//	tree, _ := query.ParseString(`asthma OR "acute bronchitis"`)
//	rows, err := src.(reader.Filterer).Filter(ctx, tree, spec)
//
// Rows come back in insertion order, so the in-memory sort, dedup and page
// stages produce the same result as filtering in memory. SQLite's LOWER only
// folds ASCII letters, so non-ASCII case differences can match in memory and
// not in the database.
//
// # Errors
//
// Access failures are returned as *DataSourceError. Nothing is retried.
package reader
