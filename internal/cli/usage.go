// internal/cli/usage.go
package cli

import (
	"flag"
	"fmt"
	"io"

	"novokmer/internal/version"
)

func installUsage(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – novel k-mer discovery from paired-end reads\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s -1 <treat_1.fq> -2 <treat_2.fq> -3 <ctrl_1.fq> -4 <ctrl_2.fq> -r <ref.fa> -o <out.kmer> [options]\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -1, --treat1 file           Treatment mate-1 reads (repeatable, globs ok) [*]")
		fmt.Fprintln(out, "  -2, --treat2 file           Treatment mate-2 reads (repeatable, globs ok) [*]")
		fmt.Fprintln(out, "  -3, --ctrl1 file            Control mate-1 reads (repeatable, globs ok) [*]")
		fmt.Fprintln(out, "  -4, --ctrl2 file            Control mate-2 reads (repeatable, globs ok) [*]")
		fmt.Fprintln(out, "  -r, --reference file        Reference FASTA, '-' for STDIN [*]")
		fmt.Fprintln(out, "                              Inputs may be gzip/zstd/lz4 compressed or s3://bucket/key")

		fmt.Fprintln(out, "\nFiltering:")
		fmt.Fprintf(out, "  -k, --kmer-size int         K-mer size, <=31 [%s]\n", def("kmer-size"))
		fmt.Fprintf(out, "  -m, --min-count int         Minimum count regarded as a novel k-mer [%s]\n", def("min-count"))
		fmt.Fprintf(out, "      --keep-ambiguous        Read non-ACGT bases as A instead of skipping [%s]\n", def("keep-ambiguous"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, "  -o, --output file           Novel k-mer table, '-' for STDOUT [*]")
		fmt.Fprintf(out, "      --out1 file             Deduplicated mate-1 reads [%s]\n", def("out1"))
		fmt.Fprintf(out, "      --out2 file             Deduplicated mate-2 reads [%s]\n", def("out2"))
		fmt.Fprintln(out, "                              .gz/.zst/.lz4 suffixes compress the output")
		fmt.Fprintf(out, "      --format string         Table format: tsv | jsonl [%s]\n", def("format"))
		fmt.Fprintf(out, "      --sort                  Sort the table by count, then k-mer [%s]\n", def("sort"))
		fmt.Fprintln(out, "      --report file           Write a JSON run report")

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --progress duration     Progress log interval (0=off) [%s]\n", def("progress"))
		fmt.Fprintf(out, "  -q, --quiet                 Only log warnings and errors [%s]\n", def("quiet"))
		fmt.Fprintf(out, "      --verbose               Log debug detail [%s]\n", def("verbose"))
		fmt.Fprintf(out, "      --log-format string     Log format: text | json [%s]\n", def("log-format"))
		fmt.Fprintln(out, "      --examples              Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}

// PrintExamples prints a small quickstart.
func PrintExamples(out io.Writer, name string) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s — quickstart\n\n", name)
	_, _ = fmt.Fprintln(out, "  # one tumour/normal pair against hg38")
	_, _ = fmt.Fprintf(out, "  %s -1 T_1.fq.gz -2 T_2.fq.gz -3 N_1.fq.gz -4 N_2.fq.gz -r hg38.fa -o novel.kmer\n\n", name)
	_, _ = fmt.Fprintln(out, "  # several lanes, k=31, sorted JSONL table, 8 threads")
	_, _ = fmt.Fprintf(out, "  %s -1 'T_L*_1.fq.gz' -2 'T_L*_2.fq.gz' -3 N_1.fq -4 N_2.fq -r ref.fa \\\n", name)
	_, _ = fmt.Fprintln(out, "      -k 31 --format jsonl --sort -t 8 -o novel.jsonl")
	_, _ = fmt.Fprintln(out, "\nTip: run with --help for all flags.")
}
