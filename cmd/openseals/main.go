// Command openseals is the file-format/CLI front-end to the codec
// core: it infers a file's format from its extension, drives
// loader/consensus/schema/proof, and exits non-zero on any core
// error.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/openseals/core/bech32id"
	"github.com/openseals/core/consensus"
	cschema "github.com/openseals/core/schema"
	"github.com/openseals/core/loader"
	"github.com/openseals/core/proof"
	"github.com/openseals/core/registry"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage())
		os.Exit(2)
	}

	cfg := DefaultConfig()
	if err := ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "openseals: bad config: %v\n", err)
		os.Exit(2)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "schema-validate":
		err = cmdSchemaValidate(cfg, args)
	case "schema-transcode":
		err = cmdSchemaTranscode(cfg, args)
	case "proof-validate":
		err = cmdProofValidate(cfg, args)
	case "proof-transcode":
		err = cmdProofTranscode(cfg, args)
	default:
		fmt.Fprintln(os.Stderr, usage())
		os.Exit(2)
	}
	if err != nil {
		reportErr(err)
		os.Exit(1)
	}
}

func usage() string {
	return strings.Join([]string{
		"usage:",
		"  openseals schema-validate <file> [--format structured|binary]",
		"  openseals schema-transcode <in> <out> [--input-format f] [--output-format f]",
		"  openseals proof-validate <file> [--schema s] [--format structured|binary]",
		"  openseals proof-transcode <in> <out> [--schema s] [--input-format f] [--output-format f]",
	}, "\n")
}

// reportErr prints err's stable code when it comes from one of the
// core packages, falling back to err.Error() otherwise.
func reportErr(err error) {
	if code, ok := consensus.CodeOf(err); ok {
		fmt.Fprintf(os.Stderr, "openseals: %s: %v\n", code, err)
		return
	}
	if code, ok := cschema.CodeOf(err); ok {
		fmt.Fprintf(os.Stderr, "openseals: %s: %v\n", code, err)
		return
	}
	if code, ok := proof.CodeOf(err); ok {
		fmt.Fprintf(os.Stderr, "openseals: %s: %v\n", code, err)
		return
	}
	if _, ok := err.(*loader.Error); ok {
		fmt.Fprintf(os.Stderr, "openseals: LOADER_ERR: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "openseals: %v\n", err)
}

// format is "structured" (YAML, via the loader) or "binary" (raw
// consensus wire bytes). inferFormat applies the extension-based
// default, overridable by an explicit flag value.
type format string

const (
	formatStructured format = "structured"
	formatBinary     format = "binary"
)

func inferFormat(path, override string) format {
	switch override {
	case "structured", "binary":
		return format(override)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatStructured
	default:
		return formatBinary
	}
}

// flags is a minimal argv parser: positional arguments first, then
// "--name value" pairs in any order.
type flags struct {
	positional []string
	named      map[string]string
}

func parseFlags(args []string) flags {
	f := flags{named: map[string]string{}}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--") {
			name := strings.TrimPrefix(a, "--")
			if i+1 < len(args) {
				f.named[name] = args[i+1]
				i++
			}
			continue
		}
		f.positional = append(f.positional, a)
	}
	return f
}

func loadSchemaFile(path, formatOverride string, cache *registry.Cache) (cschema.Schema, error) {
	fmtTag := inferFormat(path, formatOverride)
	data, err := os.ReadFile(path)
	if err != nil {
		return cschema.Schema{}, err
	}
	var sch cschema.Schema
	switch fmtTag {
	case formatStructured:
		sch, err = loader.YAMLLoader{}.LoadSchema(data)
	default:
		sch, err = cschema.ReadSchema(consensus.NewCursor(data))
		if err == nil {
			err = sch.Resolve()
		}
	}
	if err != nil {
		return cschema.Schema{}, err
	}
	if cache != nil {
		if _, err := cache.Put(sch); err != nil {
			logrus.WithError(err).Warn("failed to cache schema")
		}
	}
	return sch, nil
}

// resolveSchemaRef loads a schema named by --schema, which is either
// a file path or a content-addressed id (hex or bech32) already
// present in the registry cache.
func resolveSchemaRef(ref string, cache *registry.Cache) (*cschema.Schema, error) {
	if ref == "" {
		return nil, nil
	}
	if cache != nil {
		if id, err := consensus.HashIdFromHex(ref); err == nil {
			if sch, ok, err := cache.Get(id); err != nil {
				return nil, err
			} else if ok {
				return &sch, nil
			}
		} else if _, _, payload, err := (bech32id.BTCUtilEncoder{}).Decode(ref); err == nil {
			if id, err := consensus.NewHashId(payload); err == nil {
				if sch, ok, err := cache.Get(id); err != nil {
					return nil, err
				} else if ok {
					return &sch, nil
				}
			}
		}
	}
	sch, err := loadSchemaFile(ref, "", cache)
	if err != nil {
		return nil, err
	}
	return &sch, nil
}

func cmdSchemaValidate(cfg Config, args []string) error {
	f := parseFlags(args)
	if len(f.positional) != 1 {
		return fmt.Errorf("schema-validate: expected exactly one file argument")
	}
	cache, err := registry.Open(cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer cache.Close()

	sch, err := loadSchemaFile(f.positional[0], f.named["format"], cache)
	if err != nil {
		return err
	}
	if err := sch.Validate(); err != nil {
		return err
	}
	id, err := sch.ID()
	if err != nil {
		return err
	}
	rendered, err := bech32id.EncodeSchemaID(bech32id.BTCUtilEncoder{}, id.Bytes())
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}

func cmdSchemaTranscode(cfg Config, args []string) error {
	f := parseFlags(args)
	if len(f.positional) != 2 {
		return fmt.Errorf("schema-transcode: expected <in> <out> arguments")
	}
	cache, err := registry.Open(cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer cache.Close()

	sch, err := loadSchemaFile(f.positional[0], f.named["input-format"], cache)
	if err != nil {
		return err
	}
	outPath := f.positional[1]
	outFmt := inferFormat(outPath, f.named["output-format"])

	var out []byte
	switch outFmt {
	case formatStructured:
		out, err = loader.YAMLLoader{}.DumpSchema(sch)
	default:
		out, err = cschema.AppendSchema(nil, sch)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}

func cmdProofValidate(cfg Config, args []string) error {
	f := parseFlags(args)
	if len(f.positional) != 1 {
		return fmt.Errorf("proof-validate: expected exactly one file argument")
	}
	cache, err := registry.Open(cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer cache.Close()

	sch, err := resolveSchemaRef(f.named["schema"], cache)
	if err != nil {
		return err
	}

	p, err := loadProofFile(f.positional[0], f.named["format"], sch)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	id, err := p.ID(sch)
	if err != nil {
		return err
	}
	rendered, err := bech32id.EncodeProofID(bech32id.BTCUtilEncoder{}, id.Bytes())
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}

func cmdProofTranscode(cfg Config, args []string) error {
	f := parseFlags(args)
	if len(f.positional) != 2 {
		return fmt.Errorf("proof-transcode: expected <in> <out> arguments")
	}
	cache, err := registry.Open(cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer cache.Close()

	sch, err := resolveSchemaRef(f.named["schema"], cache)
	if err != nil {
		return err
	}

	p, err := loadProofFile(f.positional[0], f.named["input-format"], sch)
	if err != nil {
		return err
	}

	outPath := f.positional[1]
	outFmt := inferFormat(outPath, f.named["output-format"])

	var out []byte
	switch outFmt {
	case formatStructured:
		out, err = loader.YAMLLoader{}.DumpProof(p, sch)
	default:
		out, err = proof.AppendProof(nil, p, sch)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}

func loadProofFile(path, formatOverride string, sch *cschema.Schema) (proof.Proof, error) {
	fmtTag := inferFormat(path, formatOverride)
	data, err := os.ReadFile(path)
	if err != nil {
		return proof.Proof{}, err
	}
	switch fmtTag {
	case formatStructured:
		return loader.YAMLLoader{}.LoadProof(data, sch)
	default:
		return proof.ReadProof(consensus.NewCursor(data), sch)
	}
}
