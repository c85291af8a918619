package scaffold

import "text/template"

var watcherTmpl = template.Must(template.New(WatcherPath).Parse(`import { watch } from "fs";
import { join } from "path";
import { execSync } from "child_process";
import chalk from "chalk";

const banner = "Watching lib.rs for changes... (Press Ctrl+C to stop the validator and file watcher.)";

console.log(chalk.greenBright(banner));

watch(join("programs", "{{.RawName}}", "src"), null, () => {
  console.log(chalk.greenBright(
    "\nA change in lib.rs detected. Rebuilding, redeploying and reuploading the IDL..."
  ));
  console.log(execSync("npm run refresh").toString());
  console.log(chalk.greenBright(banner));
});
`))

var verifierTmpl = template.Must(template.New(VerifierPath).Parse(`import * as anchor from "@coral-xyz/anchor";

anchor.setProvider(anchor.AnchorProvider.env());

it("Passes verification!", async () => {
  await anchor.workspace.{{.PascalName}}.methods.initialize().rpc();
});
`))

// Watcher renders watcher.js, which reruns `npm run refresh` whenever the
// program source directory changes.
func Watcher(p Project) (Artifact, error) {
	content, err := render(watcherTmpl, p)
	if err != nil {
		return Artifact{}, err
	}
	return newArtifact(WatcherPath, content), nil
}

// Verifier renders verify.js, which calls initialize through the generated
// client binding for the deployed program.
func Verifier(p Project) (Artifact, error) {
	content, err := render(verifierTmpl, p)
	if err != nil {
		return Artifact{}, err
	}
	return newArtifact(VerifierPath, content), nil
}
