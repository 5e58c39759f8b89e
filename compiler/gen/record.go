package gen

import (
	"github.com/dave/jennifer/jen"
)

const (
	modulePath = "github.com/syssam/sqlderive"
	clientPkg  = modulePath + "/client"
	dialectPkg = modulePath + "/dialect"
	sqlPkg     = modulePath + "/dialect/sql"
	schemaPkg  = modulePath + "/schema"
	fieldPkg   = modulePath + "/schema/field"
)

// newFile creates a new Jennifer file with the header comment.
func newFile(cfg *Config) *jen.File {
	f := jen.NewFile(cfg.Package)
	f.HeaderComment(cfg.Header)
	f.ImportName(sqlPkg, "sql")
	f.ImportName(clientPkg, "client")
	return f
}

// genRecord generates the file of one record type ({record}.go).
func genRecord(cfg *Config, t *Type) *jen.File {
	f := newFile(cfg)
	genStruct(f, t)
	genSchema(f, t)
	genHandles(f, t)
	genClient(f, t)
	genQuery(f, t)
	return f
}

// genStruct generates the record struct and its String method.
func genStruct(f *jen.File, t *Type) {
	f.Commentf("%s is the record of the %q table.", t.Name, t.Table)
	f.Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		for _, fd := range t.Fields {
			group.Id(fd.StructField).Id(fd.GoType()).Tag(map[string]string{
				"json": fd.Name,
				"sql":  fd.Name,
			})
		}
	})

	r := t.Receiver()
	f.Comment("String implements the fmt.Stringer interface.")
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("String").Params().String().BlockFunc(func(grp *jen.Group) {
		grp.Var().Id("builder").Qual("strings", "Builder")
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(t.Name + "("))
		for i, fd := range t.Fields {
			format := "%s=%v"
			if i > 0 {
				format = ", " + format
			}
			grp.Qual("fmt", "Fprintf").Call(jen.Op("&").Id("builder"), jen.Lit(format), jen.Lit(fd.Name), jen.Id(r).Dot(fd.StructField))
		}
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(")"))
		grp.Return(jen.Id("builder").Dot("String").Call())
	})
}

// genSchema generates the schema variable of the record.
func genSchema(f *jen.File, t *Type) {
	f.Commentf("%s describes the fields of the %s record.", t.SchemaName(), t.Name)
	f.Var().Id(t.SchemaName()).Op("=").Qual(schemaPkg, "MustNew").CallFunc(func(grp *jen.Group) {
		grp.Line().Lit(t.Record)
		grp.Line().Lit(t.Table)
		for _, fd := range t.Fields {
			grp.Line().Qual(fieldPkg, fd.Constructor()).Call(jen.Lit(fd.Name))
		}
		grp.Line()
	})
}

// genHandles generates the typed field handles used to build predicates.
func genHandles(f *jen.File, t *Type) {
	if len(t.Fields) == 0 {
		return
	}
	f.Commentf("Field handles of the %s record.", t.Name)
	f.Var().DefsFunc(func(grp *jen.Group) {
		for _, fd := range t.Fields {
			grp.Id(fd.Var).Op("=").Qual(sqlPkg, fd.Handle()).Call(jen.Lit(fd.Name))
		}
	})
}

// genClient generates the client type of the record.
func genClient(f *jen.File, t *Type) {
	client := t.ClientName()
	f.Commentf("%s executes the statements of the %s record.", client, t.Name)
	f.Type().Id(client).Struct(
		jen.Op("*").Qual(clientPkg, "Table").Types(jen.Id(t.Name)),
	)

	f.Commentf("New%s returns a client of the %q table.", client, t.Table)
	f.Func().Id("New"+client).Params(
		jen.Id("drv").Qual(dialectPkg, "Driver"),
		jen.Id("opts").Op("...").Qual(clientPkg, "Option"),
	).Params(jen.Op("*").Id(client), jen.Error()).Block(
		jen.List(jen.Id("t"), jen.Err()).Op(":=").Qual(clientPkg, "New").Types(jen.Id(t.Name)).Call(
			jen.Id("drv"), jen.Id(t.SchemaName()), jen.Id("opts").Op("..."),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Op("&").Id(client).Values(jen.Dict{jen.Id("Table"): jen.Id("t")}), jen.Nil()),
	)

	f.Commentf("Query returns a new filter chain on the %q table.", t.Table)
	f.Func().Params(jen.Id("c").Op("*").Id(client)).Id("Query").Params().Op("*").Id(t.QueryName()).Block(
		jen.Return(jen.Op("&").Id(t.QueryName()).Values(jen.Dict{
			jen.Id("q"): jen.Id("c").Dot("Filter").Call(),
		})),
	)
}

// genQuery generates the typed filter chain of the record.
func genQuery(f *jen.File, t *Type) {
	query := t.QueryName()
	recs := jen.Index().Op("*").Id(t.Name)
	f.Commentf("%s is a filter chain on the %q table. It is consumed by its first Select or Delete.", query, t.Table)
	f.Type().Id(query).Struct(
		jen.Id("q").Op("*").Qual(clientPkg, "Query").Types(jen.Id(t.Name)),
	)

	for _, fd := range t.Fields {
		f.Commentf("%s adds the condition %q.", fd.Method, fd.Name+" = v")
		f.Func().Params(jen.Id("q").Op("*").Id(query)).Id(fd.Method).Params(jen.Id("v").Id(fd.GoType())).Op("*").Id(query).Block(
			jen.Id("q").Dot("q").Dot("Where").Call(jen.Id(fd.Var).Dot("EQ").Call(jen.Id("v"))),
			jen.Return(jen.Id("q")),
		)
	}

	f.Comment("Where adds the given predicates.")
	f.Func().Params(jen.Id("q").Op("*").Id(query)).Id("Where").Params(
		jen.Id("ps").Op("...").Qual(sqlPkg, "Predicate"),
	).Op("*").Id(query).Block(
		jen.Id("q").Dot("q").Dot("Where").Call(jen.Id("ps").Op("...")),
		jen.Return(jen.Id("q")),
	)

	f.Comment("Select returns the matching records.")
	f.Func().Params(jen.Id("q").Op("*").Id(query)).Id("Select").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(recs.Clone(), jen.Error()).Block(
		jen.Return(jen.Id("q").Dot("q").Dot("Select").Call(jen.Id("ctx"))),
	)

	f.Comment("Delete deletes the matching records and returns the deleted rows reported by the database.")
	f.Func().Params(jen.Id("q").Op("*").Id(query)).Id("Delete").Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(recs.Clone(), jen.Error()).Block(
		jen.Return(jen.Id("q").Dot("q").Dot("Delete").Call(jen.Id("ctx"))),
	)
}

// genSchemas generates the file listing every record schema (schemas.go).
func genSchemas(cfg *Config, types []*Type) *jen.File {
	f := newFile(cfg)
	f.Comment("Schemas returns the schemas of every generated record.")
	f.Func().Id("Schemas").Params().Index().Op("*").Qual(schemaPkg, "Schema").Block(
		jen.Return(jen.Index().Op("*").Qual(schemaPkg, "Schema").ValuesFunc(func(grp *jen.Group) {
			for _, t := range types {
				grp.Id(t.SchemaName())
			}
		})),
	)

	f.Comment("Register adds the schemas of every generated record to r.")
	f.Func().Id("Register").Params(jen.Id("r").Op("*").Qual(schemaPkg, "Registry")).Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("s")).Op(":=").Range().Id("Schemas").Call()).Block(
			jen.Id("r").Dot("Put").Call(jen.Id("s")),
		),
	)
	return f
}
