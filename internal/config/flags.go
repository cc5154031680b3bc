package config

import "flag"

// The standard flag package accepts both -name and --name, so each option
// is bound once under its short name and once under its long name.

func (c *Connection) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Host, "H", c.Host, "Elasticsearch host (required)")
	fs.StringVar(&c.Host, "host", c.Host, "Elasticsearch host (required)")
	fs.IntVar(&c.Port, "P", c.Port, "Elasticsearch port")
	fs.IntVar(&c.Port, "port", c.Port, "Elasticsearch port")
	fs.BoolVar(&c.SSL, "s", c.SSL, "connect over HTTPS")
	fs.BoolVar(&c.SSL, "ssl", c.SSL, "connect over HTTPS")
	fs.BoolVar(&c.Insecure, "k", c.Insecure, "skip TLS certificate verification")
	fs.BoolVar(&c.Insecure, "insecure", c.Insecure, "skip TLS certificate verification")
	fs.StringVar(&c.User, "u", c.User, "basic auth user")
	fs.StringVar(&c.User, "user", c.User, "basic auth user")
	fs.StringVar(&c.Password, "p", c.Password, "basic auth password")
	fs.StringVar(&c.Password, "password", c.Password, "basic auth password")
	fs.DurationVar(&c.Timeout, "t", c.Timeout, "request timeout (e.g. 10s)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "request timeout (e.g. 10s)")
}

func bindCommon(fs *flag.FlagSet, verbose *bool, textfile *string) {
	fs.BoolVar(verbose, "v", *verbose, "print diagnostics to stderr on failure")
	fs.BoolVar(verbose, "verbose", *verbose, "print diagnostics to stderr on failure")
	fs.StringVar(textfile, "textfile", *textfile, "also write the result as Prometheus metrics to this file")
}

func (t *Thresholds) bindFlags(fs *flag.FlagSet, short, long, what string) {
	fs.IntVar(&t.Warning, short+"w", t.Warning, what+" above which the state is WARNING")
	fs.IntVar(&t.Warning, long+"-warning", t.Warning, what+" above which the state is WARNING")
	fs.IntVar(&t.Critical, short+"c", t.Critical, what+" above which the state is CRITICAL")
	fs.IntVar(&t.Critical, long+"-critical", t.Critical, what+" above which the state is CRITICAL")
}

// BindFlags registers the check_elasticsearch flags on fs, using the
// current values of o as defaults.
func (o *HealthOptions) BindFlags(fs *flag.FlagSet) {
	o.Connection.bindFlags(fs)
	bindCommon(fs, &o.Verbose, &o.Textfile)
	fs.StringVar(&o.Node, "n", o.Node, "check this node (id or name) instead of the cluster")
	fs.StringVar(&o.Node, "node", o.Node, "check this node (id or name) instead of the cluster")
	o.CPU.bindFlags(fs, "c", "cpu", "CPU percentage")
	o.Heap.bindFlags(fs, "h", "heap", "Java heap usage percentage")
	o.FS.bindFlags(fs, "f", "fs", "filesystem usage percentage")
}

// BindFlags registers the check_elasticsearch_last_entry flags on fs, using
// the current values of o as defaults.
func (o *LastEntryOptions) BindFlags(fs *flag.FlagSet) {
	o.Connection.bindFlags(fs)
	bindCommon(fs, &o.Verbose, &o.Textfile)
	fs.StringVar(&o.Index, "i", o.Index, "index or index pattern to search, wildcards allowed")
	fs.StringVar(&o.Index, "index", o.Index, "index or index pattern to search, wildcards allowed")
	fs.StringVar(&o.Query, "q", o.Query, "Elasticsearch JSON query")
	fs.StringVar(&o.Query, "query", o.Query, "Elasticsearch JSON query")
	fs.IntVar(&o.Age.Warning, "w", o.Age.Warning, "age in seconds above which the state is WARNING")
	fs.IntVar(&o.Age.Warning, "warning", o.Age.Warning, "age in seconds above which the state is WARNING")
	fs.IntVar(&o.Age.Critical, "c", o.Age.Critical, "age in seconds above which the state is CRITICAL")
	fs.IntVar(&o.Age.Critical, "critical", o.Age.Critical, "age in seconds above which the state is CRITICAL")
	fs.BoolFunc("no-content-type", "do not send a JSON Content-Type header with the query", func(string) error {
		o.SendContentType = false
		return nil
	})
	fs.BoolFunc("no-index-name", "leave the index name out of the status line", func(string) error {
		o.ShowIndex = false
		return nil
	})
}
