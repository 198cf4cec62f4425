package commands

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CherkashinEvgeny/goproxy/internal/gen"
)

type genOptions struct {
	pkgName string
	pkgPath string
	file    string
}

func genCmd() *cobra.Command {
	opts := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen [source package] [interfaces]...",
		Short: "Generate proxy adapters for interfaces",
		Long: `Generate proxy adapters for the interfaces of a package.
	[source package] - Package path for which proxy code will be generated.
	[interfaces]     - Interface names, optionally as Iface->ProxyName. If empty, proxies will be generated for each interface in package.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.pkgName, "pkg", "", "package name of generated code, source package name if empty")
	cmd.Flags().StringVar(&opts.pkgPath, "path", "", "package path of generated code, source package path if empty")
	cmd.Flags().StringVar(&opts.file, "file", "", "output file path, stdout if empty")
	return cmd
}

func runGen(cmd *cobra.Command, opts *genOptions, args []string) error {
	srcPkgArg := args[0]
	if srcPkgArg == "" {
		return errors.New("source package is empty")
	}
	options, err := gen.ParseProxyOptions(args[1:])
	if err != nil {
		return errors.Wrap(err, "invalid interfaces")
	}
	if srcPkgArg == "." {
		resolved, err := gen.ResolvePackagePath(".")
		if err != nil {
			return errors.Wrap(err, "resolve source package")
		}
		srcPkgArg = resolved
	}
	srcPkg, err := gen.LoadPackage(srcPkgArg)
	if err != nil {
		return errors.Wrap(err, "failed to parse package")
	}

	var dstPkgPath string
	if opts.pkgPath != "" {
		dstPkgPath = opts.pkgPath
	} else if opts.file != "" {
		dstPkgDir, _ := path.Split(opts.file)
		if dstPkgDir == "" {
			dstPkgDir = "."
		}
		dstPkgPath, err = gen.ResolvePackagePath(dstPkgDir)
		if err != nil {
			cmd.PrintErrf("WARNING: failed to resolve destination package path, using '%s'\n\t%v\n", srcPkg.Path(), err)
			dstPkgPath = srcPkg.Path()
		}
	} else {
		dstPkgPath = srcPkg.Path()
	}
	var dstPkgName string
	if opts.pkgName != "" {
		dstPkgName = opts.pkgName
	} else if dstPkgPath == srcPkg.Path() {
		dstPkgName = srcPkg.Name()
	} else {
		dstPkgName, err = gen.ResolvePackageName(dstPkgPath)
		if err != nil {
			cmd.PrintErrf("WARNING: failed to resolve destination package name, using '%s'\n\t%v\n", srcPkg.Name(), err)
			dstPkgName = srcPkg.Name()
		}
	}

	proxies, err := gen.FindProxies(srcPkg, options, dstPkgPath)
	if err != nil {
		return errors.Wrap(err, "failed to find proxies to generate")
	}
	code, err := gen.Generate(gen.Config{
		DstPkgName: dstPkgName,
		DstPkgPath: dstPkgPath,
		SrcPkg:     srcPkg,
		Proxies:    proxies,
	})
	if err != nil {
		return errors.Wrap(err, "failed to generate code")
	}

	var out io.Writer
	if opts.file == "" {
		out = cmd.OutOrStdout()
	} else {
		file, err := os.OpenFile(opts.file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrap(err, "open file")
		}
		defer func() {
			_ = file.Close()
		}()
		out = file
	}
	_, err = io.WriteString(out, code)
	if err != nil {
		return errors.Wrap(err, "write code")
	}
	return nil
}
